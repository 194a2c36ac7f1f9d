// Package powershell turns dialog parameters into Windows PowerShell scripts and runs them.
//
// Every caller-controlled value reaches a script through SanitizeString or the option
// serializer, and every script is assembled by ScriptBuilder, so the interpolation points
// stay in one place. Runner executes a script in a fresh interpreter process and maps the
// outcome to either the selected path(s) or a DialogError.
//
// Sanitization deletes unescaped double quotes rather than escaping them and leaves every other
// character alone. PowerShell does not treat \" as an escape inside a double-quoted string, and $
// still starts a variable or $(...) subexpression there, so values containing either are passed
// through as the interpreter reads them. A value ending in a backtick escapes the closing quote of
// its literal, which joins the following line into the string. Values from untrusted sources must
// be checked by the caller for $ and backticks.
package powershell
