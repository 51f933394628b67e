// Package validator provides rule-based field validation.
//
// Rules are plain values evaluated eagerly; [Apply] collects the failing ones
// into [ValidationErrors]:
//
//	err := validator.Apply(
//		validator.RequiredString("locale", in.Locale),
//		validator.MaxLenString("locale", in.Locale, 10),
//		validator.Locale("locale", in.Locale),
//	)
//
// Each error carries a translation key and values so messages can be
// localized later with [ValidationErrors.Translate].
package validator
