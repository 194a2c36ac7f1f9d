package powershell

import (
	"fmt"
	"regexp"
)

const specialFolderExpressionTemplateConstant = `[Environment]::GetFolderPath("%s")`

var literalPathPattern = regexp.MustCompile(`^[A-Za-z]:\\`)

// IsLiteralPath reports whether value starts with a drive-letter path such as C:\.
// Anything else is treated as a special folder alias.
func IsLiteralPath(value string) bool {
	return literalPathPattern.MatchString(value)
}

// InitialDirectoryExpression renders the PowerShell expression for an initial directory:
// a quoted literal for drive-letter paths, otherwise a special folder lookup such as
// [Environment]::GetFolderPath("Desktop"). The value must already be sanitized.
func InitialDirectoryExpression(value string) string {
	if IsLiteralPath(value) {
		return quoteLiteral(value)
	}
	return fmt.Sprintf(specialFolderExpressionTemplateConstant, value)
}
