package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitserve/internal/gitrepo"
)

func TestDeriveRepositoryName(testInstance *testing.T) {
	testCases := []struct {
		name         string
		remoteURL    string
		expectedName string
	}{
		{name: "https_with_git_suffix", remoteURL: "https://example.com/foo.git", expectedName: "foo"},
		{name: "https_without_suffix", remoteURL: "https://example.com/owner/project", expectedName: "project"},
		{name: "trailing_slash", remoteURL: "https://example.com/owner/project/", expectedName: "project"},
		{name: "scp_style_remote", remoteURL: "git@example.com:owner/project.git", expectedName: "project"},
		{name: "local_path", remoteURL: "/srv/git/tools.git", expectedName: "tools"},
		{name: "empty_derivation_falls_back", remoteURL: "https://example.com/.git/", expectedName: "repo"},
		{name: "empty_url_falls_back", remoteURL: "", expectedName: "repo"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedName, gitrepo.DeriveRepositoryName(testCase.remoteURL))
		})
	}
}
