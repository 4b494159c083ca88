package repository

import "errors"

var ErrUnknownItemType = errors.New("unknown item type")
