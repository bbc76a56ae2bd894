// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-table-keeper/internal/service"
	"github.com/MKhiriev/go-table-keeper/internal/store"
)

// describeError translates business errors into user-facing Russian text.
// Unknown errors are shown as-is.
func describeError(err error) string {
	switch {
	case errors.Is(err, service.ErrDatabaseNotFound):
		return "база данных не найдена"
	case errors.Is(err, service.ErrDatabaseExists):
		return "база данных с таким именем уже существует"
	case errors.Is(err, service.ErrNameConflict):
		return "имя уже занято другой базой данных"
	case errors.Is(err, service.ErrLastDatabase):
		return "нельзя удалить последнюю базу данных"
	case errors.Is(err, service.ErrAlreadyEnrolled):
		return "синхронизация уже включена"
	case errors.Is(err, service.ErrNotEnrolled):
		return "синхронизация не включена"
	case errors.Is(err, service.ErrAuthenticationRequired):
		return "требуется авторизация"
	case errors.Is(err, service.ErrAuthorizationDenied):
		return "авторизация отклонена пользователем"
	case errors.Is(err, service.ErrAuthorizationExpired):
		return "срок действия запроса авторизации истёк"
	case errors.Is(err, store.ErrLockHeld):
		return "база данных занята другим процессом, попробуйте позже"
	default:
		return err.Error()
	}
}
