package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitserve/internal/repolock"
	"github.com/temirov/gitserve/internal/repostore"
)

const (
	defaultProbeTimeoutConstant      = 5 * time.Second
	hiddenEntryPrefixConstant        = "."
	storeRequiredMessageConstant     = "repository store not configured"
	resolverRequiredMessageConstant  = "repository status resolver not configured"
	probeFailedLogMessageConstant    = "repository status probe failed"
	logFieldRepositoryConstant       = "repository"
	logFieldProbeConstant            = "probe"
	branchProbeLabelConstant         = "current_branch"
	cleanlinessProbeLabelConstant    = "worktree_status"
)

// RepositoryRecord describes one repository beneath the root at scan time.
//
// CurrentBranch and IsClean are nil when the underlying git probe failed;
// one broken repository must not hide the others.
type RepositoryRecord struct {
	Name          string  `json:"name"`
	Path          string  `json:"path"`
	CurrentBranch *string `json:"currentBranch"`
	IsClean       *bool   `json:"isClean"`
}

// RepositoryStatusResolver answers per-repository git status questions.
type RepositoryStatusResolver interface {
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
}

// Scanner enumerates repositories beneath the store root and probes their status.
type Scanner struct {
	store          *repostore.Store
	statusResolver RepositoryStatusResolver
	locks          *repolock.Registry
	logger         *zap.Logger
	probeTimeout   time.Duration
}

// NewScanner constructs a Scanner over the provided store and status resolver.
func NewScanner(store *repostore.Store, statusResolver RepositoryStatusResolver, locks *repolock.Registry, logger *zap.Logger) (*Scanner, error) {
	if store == nil {
		return nil, errors.New(storeRequiredMessageConstant)
	}
	if statusResolver == nil {
		return nil, errors.New(resolverRequiredMessageConstant)
	}
	if locks == nil {
		locks = repolock.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scanner{
		store:          store,
		statusResolver: statusResolver,
		locks:          locks,
		logger:         logger,
		probeTimeout:   defaultProbeTimeoutConstant,
	}, nil
}

// List returns one record per repository beneath the root, ordered by name.
//
// Entries whose name starts with a dot, that are not directories, or that do
// not contain a .git directory are skipped. An empty root yields an empty
// sequence rather than an error.
func (scanner *Scanner) List(executionContext context.Context) ([]RepositoryRecord, error) {
	if ensureError := scanner.store.EnsureRoot(); ensureError != nil {
		return nil, ensureError
	}

	rootEntries, readError := scanner.store.ReadRoot()
	if readError != nil {
		return nil, readError
	}

	repositoryRecords := make([]RepositoryRecord, 0, len(rootEntries))
	for _, rootEntry := range rootEntries {
		entryName := rootEntry.Name()
		if strings.HasPrefix(entryName, hiddenEntryPrefixConstant) {
			continue
		}
		if !rootEntry.IsDir() {
			continue
		}

		repositoryPath, resolveError := scanner.store.Resolve(entryName)
		if resolveError != nil {
			continue
		}
		if !scanner.store.IsRepository(repositoryPath) {
			continue
		}

		repositoryRecords = append(repositoryRecords, scanner.buildRecord(executionContext, entryName, repositoryPath))
	}

	sort.Slice(repositoryRecords, func(firstIndex int, secondIndex int) bool {
		return repositoryRecords[firstIndex].Name < repositoryRecords[secondIndex].Name
	})

	return repositoryRecords, nil
}

func (scanner *Scanner) buildRecord(executionContext context.Context, repositoryName string, repositoryPath string) RepositoryRecord {
	scanner.locks.RLock(repositoryName)
	defer scanner.locks.RUnlock(repositoryName)

	repositoryRecord := RepositoryRecord{Name: repositoryName, Path: repositoryPath}
	repositoryRecord.CurrentBranch = scanner.probeCurrentBranch(executionContext, repositoryPath)
	repositoryRecord.IsClean = scanner.probeCleanliness(executionContext, repositoryPath)
	return repositoryRecord
}

func (scanner *Scanner) probeCurrentBranch(executionContext context.Context, repositoryPath string) *string {
	probeContext, cancelProbe := context.WithTimeout(executionContext, scanner.probeTimeout)
	defer cancelProbe()

	currentBranch, branchError := scanner.statusResolver.GetCurrentBranch(probeContext, repositoryPath)
	if branchError != nil {
		scanner.logger.Debug(
			probeFailedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldProbeConstant, branchProbeLabelConstant),
			zap.Error(branchError),
		)
		return nil
	}
	if len(currentBranch) == 0 {
		return nil
	}
	return &currentBranch
}

func (scanner *Scanner) probeCleanliness(executionContext context.Context, repositoryPath string) *bool {
	probeContext, cancelProbe := context.WithTimeout(executionContext, scanner.probeTimeout)
	defer cancelProbe()

	isClean, cleanlinessError := scanner.statusResolver.CheckCleanWorktree(probeContext, repositoryPath)
	if cleanlinessError != nil {
		scanner.logger.Debug(
			probeFailedLogMessageConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldProbeConstant, cleanlinessProbeLabelConstant),
			zap.Error(cleanlinessError),
		)
		return nil
	}
	return &isClean
}
