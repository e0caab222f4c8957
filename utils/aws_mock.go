package utils

import (
	"context"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/defaults"
	"reflect"
	"sync"
)

var (
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
)

// AwsMockHandler intercepts AWS SDK requests before they are signed and sent,
// dispatching them to in-process handlers instead. Handlers are functions of
// the form func(context.Context, *<Service>Input) (*<Service>Output, error),
// or structs whose methods have that form.
type AwsMockHandler struct {
	mtx         sync.Mutex
	handlers    []reflect.Value
	invocations []interface{}
}

func NewAwsMockHandler() *AwsMockHandler {
	return &AwsMockHandler{}
}

// AwsConfig returns an aws.Config whose requests are served by the mock.
func (a *AwsMockHandler) AwsConfig() aws.Config {
	config := defaults.Config()
	config.Region = "us-mars-1"
	config.Credentials = aws.NewStaticCredentialsProvider("a", "b", "c")

	clearAllHandlers(&config.Handlers)

	// The signing phase is the first one that always runs, hijack the
	// request from there.
	config.Handlers.Sign.PushFront(func(request *aws.Request) {
		clearAllHandlers(&request.Handlers)
		request.Handlers.Send.PushFront(a.serve)
	})

	return config
}

func (a *AwsMockHandler) AddHandler(handlerObject interface{}) {
	handler := reflect.ValueOf(handlerObject)

	if handler.Kind() == reflect.Func {
		PanicIfF(!isHandlerSignature(handler.Type()),
			"handler must have signature of func(context.Context, <arg>)(<res>, error)")
		a.handlers = append(a.handlers, handler)
		return
	}

	PanicIfF(handler.NumMethod() == 0, "the handler must have invokable methods")
	for i := 0; i < handler.NumMethod(); i++ {
		if isHandlerSignature(handler.Method(i).Type()) {
			a.handlers = append(a.handlers, handler.Method(i))
		}
	}
}

// Invocations returns the request inputs seen so far, in order.
func (a *AwsMockHandler) Invocations() []interface{} {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return append([]interface{}(nil), a.invocations...)
}

func (a *AwsMockHandler) serve(request *aws.Request) {
	clearAllHandlers(&request.Handlers)
	request.Retryable = aws.Bool(false)

	a.mtx.Lock()
	a.invocations = append(a.invocations, request.Params)
	a.mtx.Unlock()

	res, err := a.dispatch(request.Context(), request.Params)
	if err != nil {
		request.Error = err
	} else {
		request.Data = res
	}
}

func (a *AwsMockHandler) dispatch(ctx context.Context,
	params interface{}) (interface{}, error) {

	paramType := reflect.TypeOf(params)
	for _, h := range a.handlers {
		if !paramType.ConvertibleTo(h.Type().In(1)) {
			continue
		}

		res := h.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(params)})
		if !res[1].IsNil() {
			return nil, res[1].Interface().(error)
		}
		return res[0].Interface(), nil
	}

	panic("could not find a handler")
}

func isHandlerSignature(tp reflect.Type) bool {
	if tp.NumIn() != 2 || tp.NumOut() != 2 {
		return false
	}
	return contextType.ConvertibleTo(tp.In(0)) && tp.Out(1).ConvertibleTo(errorType)
}

func clearAllHandlers(h *aws.Handlers) {
	h.Validate.Clear()
	h.Build.Clear()
	h.Sign.Clear()
	h.Send.Clear()
	h.AfterRetry.Clear()
	h.Unmarshal.Clear()
	h.UnmarshalError.Clear()
	h.UnmarshalMeta.Clear()
	h.ValidateResponse.Clear()
	h.Complete.Clear()
}
