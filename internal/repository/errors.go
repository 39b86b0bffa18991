package repository

import "errors"

// ErrDuplicate signals a unique-constraint violation (site domain, country
// name, or a (name, site) pair). Relies on gorm.Config.TranslateError so the
// postgres and sqlite drivers both surface gorm.ErrDuplicatedKey.
var ErrDuplicate = errors.New("duplicate record")
