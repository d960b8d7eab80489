// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sort"

	"github.com/MKhiriev/go-forum/models"
)

// AuthorityPrefix marks role codes used as authorization scopes.
const AuthorityPrefix = "ROLE_"

// PrincipalFromUser projects a stored user onto the request-scoped identity.
// Authorities are the prefixed role codes, sorted and without duplicates.
// Soft-deleted users yield a disabled principal.
func PrincipalFromUser(user models.User) models.Principal {
	authorities := make([]string, 0, len(user.Roles))
	seen := make(map[string]struct{}, len(user.Roles))
	for _, role := range user.Roles {
		authority := AuthorityPrefix + role.Code
		if _, ok := seen[authority]; ok {
			continue
		}
		seen[authority] = struct{}{}
		authorities = append(authorities, authority)
	}
	sort.Strings(authorities)

	return models.Principal{
		UserID:       user.UserID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Authorities:  authorities,
		Enabled:      !user.IsDeleted,
	}
}
