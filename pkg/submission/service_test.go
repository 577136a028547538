package submission

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/islamicvirtualuniversity-art/VIL/pkg/messages"
)

type fakeTransport struct {
	called bool
	req    *http.Request
	body   []byte
	resp   *http.Response
	err    error
}

func (f *fakeTransport) Do(req *http.Request) (*http.Response, error) {
	f.called = true
	f.req = req
	if req.Body != nil {
		f.body, _ = io.ReadAll(req.Body)
	}
	return f.resp, f.err
}

func TestNew_UsesInjectedHTTPClient(t *testing.T) {
	ft := &fakeTransport{}

	svc := New(Options{HTTPClient: ft})

	impl, ok := svc.(*service)
	require.True(t, ok, "New should return *service implementation")
	require.Same(t, ft, impl.client, "should use injected HTTP client")
	require.Equal(t, DefaultTimeout, impl.opts.Timeout)
	require.Equal(t, messages.DefaultLocale, impl.messages.Locale())
	require.Nil(t, impl.breaker)
}
