// Package middleware wraps a ports.FormStore with behavior applied to every
// persisted form session.
package middleware

import "github.com/aretw0/folio/pkg/ports"

// Middleware allows wrapping a FormStore to add behavior.
type Middleware func(ports.FormStore) ports.FormStore
