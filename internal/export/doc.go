// Package export serves the flattened key -> content view of a locale.
//
// A request is answered in two reads against a catalog.ExportReader: the
// freshness read (max updated_at over the filtered view) and, only when the
// client's cached copy is stale, the projection. Between the two reads a
// concurrent writer may land a change; the response then carries validators
// of the older state and the next request will observe the new one.
// WithSnapshot(true) closes that window when the reader supports snapshots.
//
//	svc := export.NewService(store, export.WithPolicy(conditional.DefaultPolicy))
//	res, err := svc.Export(ctx, export.Request{
//		Identity:    r.URL.String(),
//		Filter:      catalog.ExportFilter{Locale: "en", Tags: []string{"mobile"}},
//		IfNoneMatch: r.Header.Get("If-None-Match"),
//	})
package export
