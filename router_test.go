package account_test

import (
	"context"
	"encoding/json"
	"mime/multipart"

	"github.com/goliatone/go-router"
)

// fakeContext is a stateful router.Context for handler tests: headers,
// params and body go in, the written response comes out.
type fakeContext struct {
	ctx     context.Context
	headers map[string]string
	params  map[string]string
	locals  map[any]any
	body    string
	bindErr error

	statusCode     int
	jsonCode       int
	jsonBody       any
	redirectTo     string
	redirectStatus int
	nextCalled     bool
}

var _ router.Context = (*fakeContext)(nil)

func newFakeContext() *fakeContext {
	return &fakeContext{
		ctx:     context.Background(),
		headers: map[string]string{},
		params:  map[string]string{},
		locals:  map[any]any{},
	}
}

func (f *fakeContext) Next() error {
	f.nextCalled = true
	return nil
}

func (f *fakeContext) Context() context.Context        { return f.ctx }
func (f *fakeContext) SetContext(ctx context.Context)  { f.ctx = ctx }
func (f *fakeContext) Path() string                    { return "" }
func (f *fakeContext) Method() string                  { return "" }
func (f *fakeContext) Body() []byte                    { return []byte(f.body) }
func (f *fakeContext) Status(code int) router.Context  { f.statusCode = code; return f }
func (f *fakeContext) SendString(s string) error       { return nil }
func (f *fakeContext) Send(b []byte) error             { return nil }
func (f *fakeContext) NoContent(code int) error        { f.statusCode = code; return nil }
func (f *fakeContext) OriginalURL() string             { return "" }
func (f *fakeContext) OnNext(callback func() error)    {}
func (f *fakeContext) Referer() string                 { return "" }
func (f *fakeContext) Cookie(cookie *router.Cookie)    {}
func (f *fakeContext) CookieParser(i any) error        { return nil }
func (f *fakeContext) Set(key string, val any)         {}
func (f *fakeContext) Queries() map[string]string      { return map[string]string{} }
func (f *fakeContext) SetHeader(key, val string) router.Context {
	f.headers[key] = val
	return f
}

func (f *fakeContext) JSON(code int, val any) error {
	f.jsonCode = code
	f.jsonBody = val
	return nil
}

func (f *fakeContext) Render(name string, bind any, layout ...string) error { return nil }

func (f *fakeContext) Redirect(path string, status ...int) error {
	f.redirectTo = path
	if len(status) > 0 {
		f.redirectStatus = status[0]
	}
	return nil
}

func (f *fakeContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	return nil
}

func (f *fakeContext) RedirectBack(fallback string, status ...int) error { return nil }

func (f *fakeContext) Header(key string) string { return f.headers[key] }

func (f *fakeContext) Get(key string, defaultValue any) any {
	if v, ok := f.locals[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeContext) GetBool(key string, defaultValue bool) bool { return defaultValue }
func (f *fakeContext) GetInt(key string, def int) int             { return def }

func (f *fakeContext) GetString(key string, defaultValue string) string {
	if v, ok := f.headers[key]; ok {
		return v
	}
	return defaultValue
}

func (f *fakeContext) Bind(i any) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	if f.body == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.body), i)
}

func (f *fakeContext) BindJSON(i any) error  { return f.Bind(i) }
func (f *fakeContext) BindXML(i any) error   { return nil }
func (f *fakeContext) BindQuery(i any) error { return nil }

func (f *fakeContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) Param(key string, defaultValue ...string) string {
	if v, ok := f.params[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) ParamsInt(key string, defaultValue int) int       { return defaultValue }
func (f *fakeContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}
func (f *fakeContext) QueryInt(key string, defaultValue int) int        { return defaultValue }

func (f *fakeContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		f.locals[key] = value[0]
		return nil
	}
	return f.locals[key]
}

func (f *fakeContext) LocalsMerge(key string, value map[string]any) map[string]any {
	merged, _ := f.locals[key].(map[string]any)
	if merged == nil {
		merged = map[string]any{}
	}
	for k, v := range value {
		merged[k] = v
	}
	f.locals[key] = merged
	return merged
}

func (f *fakeContext) FormFile(key string) (*multipart.FileHeader, error) { return nil, nil }

func (f *fakeContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *fakeContext) SendStatus(code int) error { f.statusCode = code; return nil }

func (f *fakeContext) RouteName() string { return "" }

func (f *fakeContext) RouteParams() map[string]string { return f.params }
