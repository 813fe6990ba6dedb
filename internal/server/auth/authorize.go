package auth

import "github.com/ndenisov/imgvault/internal/common"

// Authorize decides whether the authenticated subject may act on a resource
// owned by owner. The check is equality on usernames.
//
// A denial is common.ErrAccessDenied, which callers must keep
// distinguishable from authentication failures and from not-found.
func Authorize(subject, owner string) error {
	if subject != owner {
		return common.ErrAccessDenied
	}
	return nil
}
