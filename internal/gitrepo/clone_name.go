package gitrepo

import "strings"

const (
	pathSeparatorConstant          = "/"
	gitSuffixConstant              = ".git"
	fallbackRepositoryNameConstant = "repo"
)

// DeriveRepositoryName extracts the directory name implied by a clone URL.
//
// The last path segment is taken after trailing separators are removed and a
// trailing .git suffix is stripped. SCP-style remotes such as
// git@host:owner/repo.git reduce the same way because the final segment
// follows the last slash. An empty derivation falls back to "repo".
func DeriveRepositoryName(remoteURL string) string {
	trimmedRemote := strings.TrimRight(strings.TrimSpace(remoteURL), pathSeparatorConstant)

	lastSeparatorIndex := strings.LastIndex(trimmedRemote, pathSeparatorConstant)
	candidateName := trimmedRemote
	if lastSeparatorIndex >= 0 {
		candidateName = trimmedRemote[lastSeparatorIndex+1:]
	}

	candidateName = strings.TrimSuffix(candidateName, gitSuffixConstant)
	if len(candidateName) == 0 {
		return fallbackRepositoryNameConstant
	}
	return candidateName
}
