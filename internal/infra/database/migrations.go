package database

import (
	"context"
	"fmt"
	"strings"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    company TEXT NOT NULL DEFAULT '',
    contact_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    phone TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    tags TEXT NOT NULL DEFAULT '[]',
    notes TEXT NOT NULL DEFAULT '',
    value {{float}} NOT NULL DEFAULT 0,
    priority TEXT NOT NULL DEFAULT 'medium',
    source TEXT NOT NULL DEFAULT '',
    assigned_to TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL DEFAULT 0,
    next_follow_up {{ts}},
    expected_close_date {{ts}},
    follow_up_notified_at {{ts}},
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_status_position ON leads(status, position);

CREATE TABLE IF NOT EXISTS activities (
    id TEXT PRIMARY KEY,
    lead_id TEXT NOT NULL,
    user_id TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL,
    details TEXT NOT NULL DEFAULT '',
    created_at {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_lead ON activities(lead_id);
CREATE INDEX IF NOT EXISTS idx_activities_created_at ON activities(created_at);

CREATE TABLE IF NOT EXISTS automation_rules (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    trigger_status TEXT NOT NULL,
    action TEXT NOT NULL,
    action_params TEXT NOT NULL DEFAULT '{}',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_by TEXT NOT NULL DEFAULT '',
    created_at {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rules_trigger ON automation_rules(trigger_status, is_active);

CREATE TABLE IF NOT EXISTS webhooks (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    url TEXT NOT NULL,
    events TEXT NOT NULL DEFAULT '[]',
    secret TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    retry_count INTEGER NOT NULL DEFAULT 3,
    timeout_seconds INTEGER NOT NULL DEFAULT 30,
    total_triggers INTEGER NOT NULL DEFAULT 0,
    failed_triggers INTEGER NOT NULL DEFAULT 0,
    last_triggered {{ts}},
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_webhooks_user ON webhooks(user_id);

CREATE TABLE IF NOT EXISTS webhook_logs (
    id TEXT PRIMARY KEY,
    webhook_id TEXT NOT NULL,
    event TEXT NOT NULL,
    payload TEXT NOT NULL,
    response_status INTEGER NOT NULL DEFAULT 0,
    response_body TEXT NOT NULL DEFAULT '',
    error_message TEXT NOT NULL DEFAULT '',
    success BOOLEAN NOT NULL DEFAULT FALSE,
    triggered_at {{ts}} NOT NULL,
    completed_at {{ts}}
);
CREATE INDEX IF NOT EXISTS idx_webhook_logs_webhook ON webhook_logs(webhook_id, triggered_at);

CREATE TABLE IF NOT EXISTS themes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    colors TEXT NOT NULL,
    logo_base64 TEXT NOT NULL DEFAULT '',
    font_family TEXT NOT NULL,
    font_size_base TEXT NOT NULL,
    border_radius TEXT NOT NULL,
    is_dark_mode BOOLEAN NOT NULL DEFAULT FALSE,
    is_active BOOLEAN NOT NULL DEFAULT FALSE,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_themes_user ON themes(user_id);

CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    message TEXT NOT NULL,
    priority TEXT NOT NULL,
    lead_id TEXT NOT NULL DEFAULT '',
    action_url TEXT NOT NULL DEFAULT '',
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    read_at {{ts}},
    created_at {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at);

CREATE TABLE IF NOT EXISTS notification_settings (
    user_id TEXT PRIMARY KEY,
    lead_created BOOLEAN NOT NULL DEFAULT TRUE,
    lead_status_changed BOOLEAN NOT NULL DEFAULT TRUE,
    lead_assigned BOOLEAN NOT NULL DEFAULT TRUE,
    follow_up_due BOOLEAN NOT NULL DEFAULT TRUE,
    high_value_leads BOOLEAN NOT NULL DEFAULT TRUE,
    deal_closed BOOLEAN NOT NULL DEFAULT TRUE,
    email_notifications BOOLEAN NOT NULL DEFAULT FALSE,
    push_notifications BOOLEAN NOT NULL DEFAULT TRUE,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS calendar_events (
    id TEXT PRIMARY KEY,
    lead_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_time {{ts}} NOT NULL,
    end_time {{ts}} NOT NULL,
    event_type TEXT NOT NULL,
    created_at {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_calendar_events_user ON calendar_events(user_id, start_time);
`

// RunMigrations cria as tabelas se ainda não existirem.
func (db *DB) RunMigrations(ctx context.Context) error {
	ts, float := "TIMESTAMP", "REAL"
	if db.IsPostgres() {
		ts, float = "TIMESTAMPTZ", "DOUBLE PRECISION"
	}
	ddl := strings.NewReplacer("{{ts}}", ts, "{{float}}", float).Replace(schema)

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("falha ao rodar migração: %w", err)
		}
	}
	return nil
}
