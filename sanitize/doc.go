// Package sanitize prepares free-text user input for storage and display.
//
// Sanitize trims surrounding whitespace and escapes the five HTML-significant
// characters as character references:
//
//	&  ->  &amp;
//	<  ->  &lt;
//	>  ->  &gt;
//	'  ->  &apos;
//	"  ->  &quot;
//
// Nothing is stripped. The length limit applies to the escaped result,
// counted in characters, and overflow is an error rather than a silent
// truncation.
//
// Record sanitizes a whole form against per-field Limits and reports every
// overflowing field at once.
package sanitize
