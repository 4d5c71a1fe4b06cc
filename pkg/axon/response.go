package axon

import "net/http"

// Response lets a bound handler pick the status code of a successful reply.
//
//	func (c *SearchController) Create(criteria *Criteria) (*axon.Response, error) {
//		return axon.Created(criteria), nil
//	}
type Response struct {
	StatusCode int         `json:"-"`
	Body       interface{} `json:"body,omitempty"`
}

// NewResponse creates a new Response with the specified status code and body
func NewResponse(statusCode int, body interface{}) *Response {
	return &Response{
		StatusCode: statusCode,
		Body:       body,
	}
}

func OK(body interface{}) *Response {
	return NewResponse(http.StatusOK, body)
}

func Created(body interface{}) *Response {
	return NewResponse(http.StatusCreated, body)
}

// NoContent creates a 204 response; a nil body is written without content
func NoContent() *Response {
	return NewResponse(http.StatusNoContent, nil)
}

// BadRequest renders message in the same {"error": ...} envelope as ErrorBody
func BadRequest(message string) *Response {
	return NewResponse(http.StatusBadRequest, map[string]interface{}{"error": message})
}

func NotFound(message string) *Response {
	return NewResponse(http.StatusNotFound, map[string]interface{}{"error": message})
}

func InternalServerError(message string) *Response {
	return NewResponse(http.StatusInternalServerError, map[string]interface{}{"error": message})
}
