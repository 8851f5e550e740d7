package uow

import "errors"

// Ошибки реестра репозиториев. Оборачивать их не нужно: вызывающий код сверяется
// через errors.Is.
var (
	ErrRepositoryNotRegistered     = errors.New("[uow] repository not registered")
	ErrRepositoryAlreadyRegistered = errors.New("[uow] repository already registered")
	ErrInvalidRepositoryType       = errors.New("[uow] invalid repository type")
)
