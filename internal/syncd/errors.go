package syncd

import "errors"

// Authentication failures are surfaced to users as a small closed set of
// messages; everything unexpected collapses into ErrAuthGeneric.
var (
	ErrWrongPassword   = errors.New("Senha incorreta. Tente novamente.")
	ErrAccountNotFound = errors.New("Nenhuma conta encontrada com este e-mail.")
	ErrInvalidEmail    = errors.New("Formato de e-mail inválido.")
	ErrEmailInUse      = errors.New("Este e-mail já está em uso.")
	ErrWeakPassword    = errors.New("A senha deve ter pelo menos 6 caracteres.")
	ErrAuthGeneric     = errors.New("Ocorreu um erro. Tente novamente.")

	// ErrAuthRequired guards every remote operation: no principal, no write.
	ErrAuthRequired = errors.New("Você precisa estar logado para executar esta operação.")

	// ErrUnknownCollection is returned for collection names outside the
	// four entity collections.
	ErrUnknownCollection = errors.New("unknown entity collection")

	// ErrNotFound is returned when an update or delete targets a document
	// that does not exist under the principal's namespace.
	ErrNotFound = errors.New("document not found")
)

// IsAuthError reports whether err belongs to the closed user-facing set.
func IsAuthError(err error) bool {
	switch {
	case errors.Is(err, ErrWrongPassword),
		errors.Is(err, ErrAccountNotFound),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrEmailInUse),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrAuthGeneric),
		errors.Is(err, ErrAuthRequired):
		return true
	}
	return false
}
