// Package language normalizes the language identifiers that arrive with
// subtitle tracks. Platforms deliver anything from bare ISO 639-1 codes to
// full BCP 47 tags and legacy bibliographic codes; everything is folded to a
// base code here so track selection and analysis requests compare equal.
package language
