package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/temirov/gitserve/internal/inventory"
	"github.com/temirov/gitserve/internal/operations"
)

const (
	reposRoutePathConstant  = "/repos"
	healthRoutePathConstant = "/health"
	initRoutePathConstant   = "/init"
	cloneRoutePathConstant  = "/clone"
	runRoutePathConstant    = "/run"

	contentTypeHeaderNameConstant = "Content-Type"
	jsonContentTypeValueConstant  = "application/json; charset=utf-8"

	missingNameMessageConstant      = "Missing 'name'"
	missingURLMessageConstant       = "Missing 'url'"
	missingRunFieldsMessageConstant = "Missing 'repo' or 'args' (list)"

	requestHandledMessageConstant         = "handled request"
	responseEncodingFailedMessageConstant = "response encoding failed"

	httpMethodFieldNameConstant  = "method"
	requestPathFieldNameConstant = "path"
	statusCodeFieldNameConstant  = "status"
)

var (
	// ErrInventoryListerNotConfigured indicates NewRouter received a nil inventory lister.
	ErrInventoryListerNotConfigured = errors.New("inventory lister not configured")
	// ErrOperationServiceNotConfigured indicates NewRouter received a nil operation service.
	ErrOperationServiceNotConfigured = errors.New("operation service not configured")
	// ErrRouterLoggerNotConfigured indicates NewRouter received a nil logger.
	ErrRouterLoggerNotConfigured = errors.New("router logger not configured")
)

// InventoryLister enumerates the repositories under the configured root.
type InventoryLister interface {
	List(executionContext context.Context) ([]inventory.RepositoryRecord, error)
}

// OperationService performs the mutating git operations exposed by the gateway.
type OperationService interface {
	InitializeRepository(executionContext context.Context, repositoryName string) (operations.RepositoryReference, error)
	CloneRepository(executionContext context.Context, cloneURL string, repositoryName string) (operations.RepositoryReference, error)
	RunCommand(executionContext context.Context, repositoryName string, commandArguments []string) (operations.CommandOutput, error)
}

type initRequest struct {
	Name string `json:"name"`
}

type cloneRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type runRequest struct {
	Repo string          `json:"repo"`
	Args json.RawMessage `json:"args"`
}

type healthResponse struct {
	OK             bool   `json:"ok"`
	RepositoryRoot string `json:"reposDir"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Router dispatches gateway HTTP requests onto the inventory and operation services.
type Router struct {
	inventoryLister  InventoryLister
	operationService OperationService
	repositoryRoot   string
	logger           *zap.Logger
}

// NewRouter validates dependencies and constructs a Router.
func NewRouter(inventoryLister InventoryLister, operationService OperationService, repositoryRoot string, logger *zap.Logger) (*Router, error) {
	if inventoryLister == nil {
		return nil, ErrInventoryListerNotConfigured
	}
	if operationService == nil {
		return nil, ErrOperationServiceNotConfigured
	}
	if logger == nil {
		return nil, ErrRouterLoggerNotConfigured
	}
	return &Router{
		inventoryLister:  inventoryLister,
		operationService: operationService,
		repositoryRoot:   repositoryRoot,
		logger:           logger,
	}, nil
}

// Handler returns the HTTP handler serving every gateway route.
func (router *Router) Handler() http.Handler {
	return router.withRequestLogging(http.HandlerFunc(router.dispatch))
}

// dispatch routes by exact path and method. Unknown paths and unsupported
// methods both answer with an empty 404 body.
func (router *Router) dispatch(responseWriter http.ResponseWriter, request *http.Request) {
	switch request.URL.Path {
	case reposRoutePathConstant:
		if request.Method != http.MethodGet {
			responseWriter.WriteHeader(http.StatusNotFound)
			return
		}
		router.handleListRepositories(responseWriter, request)
	case healthRoutePathConstant:
		if request.Method != http.MethodGet {
			responseWriter.WriteHeader(http.StatusNotFound)
			return
		}
		router.handleHealth(responseWriter, request)
	case initRoutePathConstant:
		if request.Method != http.MethodPost {
			responseWriter.WriteHeader(http.StatusNotFound)
			return
		}
		router.handleInitializeRepository(responseWriter, request)
	case cloneRoutePathConstant:
		if request.Method != http.MethodPost {
			responseWriter.WriteHeader(http.StatusNotFound)
			return
		}
		router.handleCloneRepository(responseWriter, request)
	case runRoutePathConstant:
		if request.Method != http.MethodPost {
			responseWriter.WriteHeader(http.StatusNotFound)
			return
		}
		router.handleRunCommand(responseWriter, request)
	default:
		responseWriter.WriteHeader(http.StatusNotFound)
	}
}

func (router *Router) handleListRepositories(responseWriter http.ResponseWriter, request *http.Request) {
	repositoryRecords, listError := router.inventoryLister.List(request.Context())
	if listError != nil {
		router.writeError(responseWriter, http.StatusInternalServerError, listError.Error())
		return
	}
	router.writeJSON(responseWriter, http.StatusOK, repositoryRecords)
}

func (router *Router) handleHealth(responseWriter http.ResponseWriter, _ *http.Request) {
	router.writeJSON(responseWriter, http.StatusOK, healthResponse{OK: true, RepositoryRoot: router.repositoryRoot})
}

func (router *Router) handleInitializeRepository(responseWriter http.ResponseWriter, request *http.Request) {
	var requestPayload initRequest
	if !router.decodeRequestBody(responseWriter, request, &requestPayload) {
		return
	}
	if len(requestPayload.Name) == 0 {
		router.writeError(responseWriter, http.StatusBadRequest, missingNameMessageConstant)
		return
	}

	repositoryReference, initializeError := router.operationService.InitializeRepository(request.Context(), requestPayload.Name)
	if initializeError != nil {
		router.writeOperationError(responseWriter, initializeError)
		return
	}
	router.writeJSON(responseWriter, http.StatusCreated, repositoryReference)
}

func (router *Router) handleCloneRepository(responseWriter http.ResponseWriter, request *http.Request) {
	var requestPayload cloneRequest
	if !router.decodeRequestBody(responseWriter, request, &requestPayload) {
		return
	}
	if len(requestPayload.URL) == 0 {
		router.writeError(responseWriter, http.StatusBadRequest, missingURLMessageConstant)
		return
	}

	repositoryReference, cloneError := router.operationService.CloneRepository(request.Context(), requestPayload.URL, requestPayload.Name)
	if cloneError != nil {
		router.writeOperationError(responseWriter, cloneError)
		return
	}
	router.writeJSON(responseWriter, http.StatusCreated, repositoryReference)
}

func (router *Router) handleRunCommand(responseWriter http.ResponseWriter, request *http.Request) {
	var requestPayload runRequest
	if !router.decodeRequestBody(responseWriter, request, &requestPayload) {
		return
	}
	if len(requestPayload.Repo) == 0 || len(requestPayload.Args) == 0 || bytes.Equal(bytes.TrimSpace(requestPayload.Args), []byte("null")) {
		router.writeError(responseWriter, http.StatusBadRequest, missingRunFieldsMessageConstant)
		return
	}
	var commandArguments []string
	if unmarshalError := json.Unmarshal(requestPayload.Args, &commandArguments); unmarshalError != nil {
		router.writeError(responseWriter, http.StatusBadRequest, missingRunFieldsMessageConstant)
		return
	}

	commandOutput, runError := router.operationService.RunCommand(request.Context(), requestPayload.Repo, commandArguments)
	if runError != nil {
		router.writeOperationError(responseWriter, runError)
		return
	}
	router.writeJSON(responseWriter, http.StatusOK, commandOutput)
}

// decodeRequestBody fills requestPayload from the request body. An empty body
// leaves the payload zeroed so the missing-field checks report it; a body that
// is present but not valid JSON is answered with a 500 and false is returned.
func (router *Router) decodeRequestBody(responseWriter http.ResponseWriter, request *http.Request, requestPayload any) bool {
	bodyBytes, readError := io.ReadAll(request.Body)
	if readError != nil {
		router.writeError(responseWriter, http.StatusInternalServerError, readError.Error())
		return false
	}
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return true
	}
	if unmarshalError := json.Unmarshal(bodyBytes, requestPayload); unmarshalError != nil {
		router.writeError(responseWriter, http.StatusInternalServerError, unmarshalError.Error())
		return false
	}
	return true
}

func (router *Router) writeOperationError(responseWriter http.ResponseWriter, operationError error) {
	var typedError *operations.OperationError
	if !errors.As(operationError, &typedError) {
		router.writeError(responseWriter, http.StatusInternalServerError, operationError.Error())
		return
	}
	router.writeError(responseWriter, statusCodeForErrorKind(typedError.Kind), typedError.Message)
}

func statusCodeForErrorKind(errorKind operations.ErrorKind) int {
	switch errorKind {
	case operations.ErrorKindValidation, operations.ErrorKindExecution:
		return http.StatusBadRequest
	case operations.ErrorKindConflict:
		return http.StatusConflict
	case operations.ErrorKindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (router *Router) writeError(responseWriter http.ResponseWriter, statusCode int, message string) {
	router.writeJSON(responseWriter, statusCode, errorResponse{Error: message})
}

func (router *Router) writeJSON(responseWriter http.ResponseWriter, statusCode int, payload any) {
	encodedPayload, marshalError := json.Marshal(payload)
	if marshalError != nil {
		router.logger.Error(responseEncodingFailedMessageConstant, zap.Error(marshalError))
		responseWriter.WriteHeader(http.StatusInternalServerError)
		return
	}
	responseWriter.Header().Set(contentTypeHeaderNameConstant, jsonContentTypeValueConstant)
	responseWriter.WriteHeader(statusCode)
	_, _ = responseWriter.Write(encodedPayload)
}

type statusRecordingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (recorder *statusRecordingResponseWriter) WriteHeader(statusCode int) {
	recorder.statusCode = statusCode
	recorder.ResponseWriter.WriteHeader(statusCode)
}

func (router *Router) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		recordingWriter := &statusRecordingResponseWriter{ResponseWriter: responseWriter, statusCode: http.StatusOK}
		next.ServeHTTP(recordingWriter, request)
		router.logger.Info(requestHandledMessageConstant,
			zap.String(httpMethodFieldNameConstant, request.Method),
			zap.String(requestPathFieldNameConstant, request.URL.Path),
			zap.Int(statusCodeFieldNameConstant, recordingWriter.statusCode),
		)
	})
}
