//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os/user"
)

// DetectOperator returns the name of the local system user, used as the
// login name when none is given.
func DetectOperator() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("current user: %w", err)
	}

	return currentUser.Username, nil
}
