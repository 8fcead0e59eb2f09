package rpc

import (
	"net/http"
	"net/url"

	"github.com/vietddude/paywatch/internal/infra/rpc/provider"
)

// NewRESTOperation creates an Operation for a REST API call.
func NewRESTOperation(name, method, path string, query url.Values, body any) Operation {
	return provider.Operation{
		Name:   name,
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	}
}

// NewGetOperation creates a GET Operation.
func NewGetOperation(name, path string, query url.Values) Operation {
	return NewRESTOperation(name, http.MethodGet, path, query, nil)
}

// NewPostOperation creates a POST Operation with a JSON body.
// POSTs are marked non-idempotent so a retry cannot create a duplicate.
func NewPostOperation(name, path string, query url.Values, body any) Operation {
	op := NewRESTOperation(name, http.MethodPost, path, query, body)
	op.NonIdempotent = true
	return op
}

// NewDeleteOperation creates a DELETE Operation.
func NewDeleteOperation(name, path string, query url.Values) Operation {
	return NewRESTOperation(name, http.MethodDelete, path, query, nil)
}

// WithHeader returns a copy of op with the header set.
func WithHeader(op Operation, key, value string) Operation {
	headers := make(map[string]string, len(op.Headers)+1)
	for k, v := range op.Headers {
		headers[k] = v
	}
	headers[key] = value
	op.Headers = headers
	return op
}
