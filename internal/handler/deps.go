package handler

import (
	"chatrelay/internal/app/relay"
	"chatrelay/internal/app/session"
	"chatrelay/internal/app/store"
	"chatrelay/internal/configs"
)

// AppDeps bundles the shared dependencies handed to every HTTP handler.
type AppDeps struct {
	Registry  *session.Registry
	Relay     *relay.Relay
	FileStore store.FileStore
	Config    *configs.AppConfig
}
