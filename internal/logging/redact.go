package logging

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// secretKeyPatterns are substrings of attribute keys whose values are masked.
// Matching is case-insensitive.
var secretKeyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"CREDENTIAL",
	"API_KEY",
	"ACCESS_KEY",
	"PRIVATE_KEY",
}

// tokenPrefixes mark a value as sensitive regardless of its key. Template
// variables and remote URLs are the usual way these end up in a log line.
var tokenPrefixes = []string{
	"ghp_",   // GitHub personal access token
	"gho_",   // GitHub OAuth token
	"ghu_",   // GitHub user-to-server token
	"ghs_",   // GitHub server-to-server token
	"ghr_",   // GitHub refresh token
	"glpat-", // GitLab personal access token
	"sk-",    // OpenAI/Anthropic keys
	"AKIA",   // AWS access key prefix
	"xoxb-",  // Slack bot token
	"xoxp-",  // Slack user token
}

// MaskValue hides all but the last four characters of value.
// Values of four characters or fewer are fully masked.
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// MaskURL replaces the password of a URL's user info with a masked value.
// Unparseable URLs and URLs without a password are returned unchanged.
func MaskURL(rawURL string) string {
	if !strings.Contains(rawURL, "@") {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}
	password, ok := parsed.User.Password()
	if !ok {
		// https://token@host form: the user name is the secret
		parsed.User = url.User(MaskValue(parsed.User.Username()))
		return parsed.String()
	}
	parsed.User = url.UserPassword(parsed.User.Username(), MaskValue(password))
	return parsed.String()
}

// ShouldMask reports whether key names a sensitive value.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// HasTokenPrefix reports whether value starts with a known token prefix.
func HasTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// redact returns the printable form of an attribute value.
func redact(key string, value any) any {
	s, isString := value.(string)
	switch {
	case ShouldMask(key):
		if !isString {
			s = fmt.Sprint(value)
		}
		return MaskValue(s)
	case !isString:
		return value
	case HasTokenPrefix(s):
		return MaskValue(s)
	case strings.Contains(s, "://"):
		return MaskURL(s)
	default:
		return s
	}
}

// redactAttr is the ReplaceAttr hook of the JSON handlers. The built-in
// message is left alone; string values and secret-named keys go through
// redact.
func redactAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.MessageKey {
		return a
	}
	if a.Value.Kind() == slog.KindString || ShouldMask(a.Key) {
		return slog.Any(a.Key, redact(a.Key, a.Value.Any()))
	}
	return a
}
