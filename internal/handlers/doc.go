// Package handlers exposes the translation catalog over JSON HTTP.
//
// Routes live under /api:
//
//	GET   /api/translations/export?locale=en&tags=mobile,web
//	GET   /api/translations?locale=&tag=&key=&content=&page=
//	POST  /api/translations
//	GET   /api/translations/{id}
//	PATCH /api/translations/{id}   (PUT is an alias)
//	GET   /api/tags
//
// Errors are rendered by ErrorHandler, which must be installed on the app
// with internal.WithErrorHandler.
package handlers
