package entity

import "time"

// Now devolve o instante atual em UTC truncado em microssegundos,
// a mesma precisão que o Postgres guarda.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
