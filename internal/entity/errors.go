package entity

import "errors"

var (
	// ErrNotFound é devolvido pelos repositórios quando a linha não existe.
	ErrNotFound           = errors.New("registro não encontrado")
	ErrEmailAlreadyExists = errors.New("email já cadastrado")
)
