package binding

import (
	"net/http"
	"reflect"

	"github.com/toyz/axonresolve/pkg/axon"
)

func respond(c axon.RequestContext, returnType ReturnType, out []reflect.Value) error {
	var data interface{}
	switch returnType {
	case ReturnTypeNone:
	case ReturnTypeError:
		if err := asError(out[0]); err != nil {
			return err
		}
	case ReturnTypeData:
		data = out[0].Interface()
	case ReturnTypeDataError, ReturnTypeResponseError:
		if err := asError(out[1]); err != nil {
			return err
		}
		data = out[0].Interface()
	}

	if c.Response().Written() {
		return nil
	}

	if returnType == ReturnTypeResponseError {
		response, _ := data.(*axon.Response)
		if response == nil {
			return axon.NewHTTPError(http.StatusInternalServerError, "handler returned nil response")
		}
		if response.Body == nil {
			return c.Response().NoContent(response.StatusCode)
		}
		return c.Response().JSON(response.StatusCode, response.Body)
	}

	if isNilValue(data) {
		return c.Response().NoContent(http.StatusNoContent)
	}
	return c.Response().JSON(http.StatusOK, data)
}

func asError(v reflect.Value) error {
	if v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

func isNilValue(data interface{}) bool {
	if data == nil {
		return true
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
