// Package conditional implements HTTP conditional-request primitives:
// strong validators (ETag, Last-Modified), If-None-Match / If-Modified-Since
// evaluation, and shared-cache Cache-Control headers.
//
// Typical flow in a handler:
//
//	v := conditional.Validator{
//		ETag:         conditional.ETag(requestURL, lastModified),
//		LastModified: lastModified,
//	}
//	conditional.Apply(w, v, policy)
//	if v.NotModified(r.Header.Get("If-None-Match"), r.Header.Get("If-Modified-Since")) {
//		w.WriteHeader(http.StatusNotModified)
//		return
//	}
package conditional
