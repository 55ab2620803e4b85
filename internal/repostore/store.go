package repostore

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	gitMetadataDirectoryNameConstant      = ".git"
	repositoryRootPermissionConstant      = fs.FileMode(0o755)
	hiddenEntryPrefixConstant             = "."
	backslashSeparatorConstant            = "\\"
	invalidNameMessageConstant            = "Invalid repo name"
	storeRootRequiredMessageConstant      = "repository root directory required"
	fileSystemRequiredMessageConstant     = "filesystem not configured"
	rootResolutionErrorTemplateConstant   = "unable to resolve repository root %q: %w"
	rootCreationErrorTemplateConstant     = "unable to create repository root %q: %w"
	rootEnumerationErrorTemplateConstant  = "unable to list repository root %q: %w"
)

// FileSystem exposes the filesystem operations required by the repository store.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
	ReadDir(path string) ([]fs.DirEntry, error)
}

// InvalidNameError reports a repository name that violates the naming rules.
type InvalidNameError struct {
	Name string
}

// Error describes the invalid name.
func (nameError InvalidNameError) Error() string {
	return invalidNameMessageConstant
}

// Store resolves repository names beneath a single root directory.
//
// Names are treated as opaque single path segments: they are joined directly
// under the root and never interpreted further, so validation must reject
// anything that could escape the root.
type Store struct {
	rootDirectory string
	fileSystem    FileSystem
}

// NewStore constructs a Store anchored at the provided root directory.
func NewStore(rootDirectory string, fileSystem FileSystem) (*Store, error) {
	trimmedRoot := strings.TrimSpace(rootDirectory)
	if len(trimmedRoot) == 0 {
		return nil, errors.New(storeRootRequiredMessageConstant)
	}
	if fileSystem == nil {
		return nil, errors.New(fileSystemRequiredMessageConstant)
	}

	absoluteRoot, absoluteError := filepath.Abs(trimmedRoot)
	if absoluteError != nil {
		return nil, fmt.Errorf(rootResolutionErrorTemplateConstant, trimmedRoot, absoluteError)
	}

	return &Store{rootDirectory: absoluteRoot, fileSystem: fileSystem}, nil
}

// RootDirectory returns the absolute repository root path.
func (store *Store) RootDirectory() string {
	return store.rootDirectory
}

// EnsureRoot creates the repository root directory hierarchy when missing.
func (store *Store) EnsureRoot() error {
	creationError := store.fileSystem.MkdirAll(store.rootDirectory, repositoryRootPermissionConstant)
	if creationError != nil {
		return fmt.Errorf(rootCreationErrorTemplateConstant, store.rootDirectory, creationError)
	}
	return nil
}

// ValidateName rejects names that are empty, contain path separators, or start with a dot.
func (store *Store) ValidateName(repositoryName string) error {
	if len(repositoryName) == 0 {
		return InvalidNameError{Name: repositoryName}
	}
	if strings.Contains(repositoryName, string(filepath.Separator)) {
		return InvalidNameError{Name: repositoryName}
	}
	if strings.Contains(repositoryName, "/") || strings.Contains(repositoryName, backslashSeparatorConstant) {
		return InvalidNameError{Name: repositoryName}
	}
	if strings.HasPrefix(repositoryName, hiddenEntryPrefixConstant) {
		return InvalidNameError{Name: repositoryName}
	}
	return nil
}

// Resolve validates the repository name and returns its absolute path beneath the root.
func (store *Store) Resolve(repositoryName string) (string, error) {
	if validationError := store.ValidateName(repositoryName); validationError != nil {
		return "", validationError
	}
	return filepath.Join(store.rootDirectory, repositoryName), nil
}

// PathExists reports whether any file or directory exists at the provided path.
func (store *Store) PathExists(path string) bool {
	_, statError := store.fileSystem.Stat(path)
	return statError == nil
}

// IsRepository reports whether the path contains a .git directory.
func (store *Store) IsRepository(path string) bool {
	gitMetadataInfo, statError := store.fileSystem.Stat(filepath.Join(path, gitMetadataDirectoryNameConstant))
	if statError != nil {
		return false
	}
	return gitMetadataInfo.IsDir()
}

// ReadRoot enumerates the immediate children of the repository root.
func (store *Store) ReadRoot() ([]fs.DirEntry, error) {
	rootEntries, readError := store.fileSystem.ReadDir(store.rootDirectory)
	if readError != nil {
		return nil, fmt.Errorf(rootEnumerationErrorTemplateConstant, store.rootDirectory, readError)
	}
	return rootEntries, nil
}
