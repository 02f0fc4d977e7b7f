package pymolrpc

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/varontron/mutation-mapper/internal/domain"
)

type call struct {
	Method string   `xml:"methodName"`
	Params []string `xml:"params>param>value>string"`
}

type fakePyMOL struct {
	mu       sync.Mutex
	commands []string
	failOn   string
	// onCommand runs before the reply is written.
	onCommand func(r *http.Request, cmd string)
}

func (f *fakePyMOL) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	var c call
	if err := xml.Unmarshal(b, &c); err != nil || c.Method != "do" || len(c.Params) != 1 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.commands = append(f.commands, c.Params[0])
	f.mu.Unlock()

	if f.onCommand != nil {
		f.onCommand(r, c.Params[0])
	}

	if f.failOn != "" && strings.Contains(c.Params[0], f.failOn) {
		_, _ = io.WriteString(w, `<methodResponse><fault><value><struct>
<member><name>faultCode</name><value><int>1</int></value></member>
<member><name>faultString</name><value><string>Selector-Error</string></value></member>
</struct></value></fault></methodResponse>`)
		return
	}
	_, _ = io.WriteString(w, `<methodResponse><params><param><value><nil/></value></param></params></methodResponse>`)
}

func pymolScript() domain.Script {
	return domain.Script{
		Viewer: domain.ViewerPyMOL,
		Gene:   "TP53",
		Commands: []string{
			"reinitialize;",
			"fetch 1TUP, async=0;",
			"set transparency, 0.5, sele;\nset cartoon_transparency, 0.5, sele;",
			"select (resi 273) and (chain A);",
		},
	}
}

func TestSend_OneCallPerLine(t *testing.T) {
	fake := &fakePyMOL{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	err := New(WithURL(srv.URL)).Send(context.Background(), pymolScript())
	require.NoError(t, err)
	require.Equal(t, []string{
		"reinitialize;",
		"fetch 1TUP, async=0;",
		"set transparency, 0.5, sele;",
		"set cartoon_transparency, 0.5, sele;",
		"select (resi 273) and (chain A);",
	}, fake.commands)
}

func TestSend_FaultStopsAndReportsLine(t *testing.T) {
	fake := &fakePyMOL{failOn: "fetch"}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	err := New(WithURL(srv.URL)).Send(context.Background(), pymolScript())
	require.True(t, domain.IsKind(err, domain.KindExecution))

	var le *LineError
	require.True(t, errors.As(err, &le))
	require.Equal(t, 2, le.Line)

	require.ErrorContains(t, err, "Selector-Error")

	require.Len(t, fake.commands, 2)
}

func TestSend_CanceledContext(t *testing.T) {
	fake := &fakePyMOL{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(WithURL(srv.URL)).Send(ctx, pymolScript())
	require.True(t, domain.IsKind(err, domain.KindExecution))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fake.commands)
}

func TestSend_JmolUnsupported(t *testing.T) {
	err := New(WithURL("http://127.0.0.1:1/RPC2")).Send(context.Background(), domain.Script{
		Viewer:   domain.ViewerJmol,
		Commands: []string{"zap;"},
	})
	require.True(t, domain.IsKind(err, domain.KindUnsupported))
	require.ErrorIs(t, err, domain.ErrUnsupported)
}

func TestSend_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(WithURL(url)).Send(context.Background(), pymolScript())
	require.True(t, domain.IsKind(err, domain.KindExecution))
}

func waitForDisconnect(r *http.Request) {
	select {
	case <-r.Context().Done():
	case <-time.After(2 * time.Second):
	}
}

func TestSend_CanceledMidScript(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := &fakePyMOL{onCommand: func(r *http.Request, cmd string) {
		if strings.HasPrefix(cmd, "fetch") {
			cancel()
			waitForDisconnect(r)
		}
	}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	err := New(WithURL(srv.URL)).Send(ctx, pymolScript())
	require.True(t, domain.IsKind(err, domain.KindExecution))
	require.ErrorIs(t, err, context.Canceled)

	var le *LineError
	require.True(t, errors.As(err, &le))
	require.Equal(t, 2, le.Line)
	require.Len(t, fake.commands, 2)
}

func TestSend_CommandTimeout(t *testing.T) {
	fake := &fakePyMOL{onCommand: func(r *http.Request, cmd string) {
		if strings.HasPrefix(cmd, "fetch") {
			waitForDisconnect(r)
		}
	}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	err := New(WithURL(srv.URL), WithTimeout(50*time.Millisecond)).Send(context.Background(), pymolScript())
	require.True(t, domain.IsKind(err, domain.KindExecution))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Len(t, fake.commands, 2)
}

func TestSend_CustomTransport(t *testing.T) {
	fake := &fakePyMOL{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	var seen int
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen++
		return http.DefaultTransport.RoundTrip(r)
	})

	err := New(WithURL(srv.URL), WithTransport(rt)).Send(context.Background(), pymolScript())
	require.NoError(t, err)
	require.Equal(t, 5, seen)
}

func TestSend_InvalidURL(t *testing.T) {
	err := New(WithURL("://nope")).Send(context.Background(), pymolScript())
	require.True(t, domain.IsKind(err, domain.KindInvalidArgument))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
