package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoobjects/internal/core/apperror"
	"logoobjects/internal/domain"
	"logoobjects/internal/domain/entities"
)

type fakeRequester struct {
	calls    []string
	bodies   []any
	response string
	err      error
}

func (f *fakeRequester) Do(_ context.Context, method, path string, body, out any) error {
	f.calls = append(f.calls, method+" "+path)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return f.err
	}
	switch o := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*o = []byte(f.response)
		return nil
	}
	if f.response == "" {
		return nil
	}
	return json.Unmarshal([]byte(f.response), out)
}

func newTestApp(req *fakeRequester) *app {
	return &app{
		registry: entities.Registry(),
		connect: func(*app) (domain.Requester, error) {
			return req, nil
		},
	}
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "criteria only",
			args: []string{"compile", "--filter", `{"cardType":1,"name":{"like":"Pen"}}`},
			want: "q:     CARD_TYPE eq 1 and NAME like 'Pen*'\n" +
				"query: q=CARD_TYPE+eq+1+and+NAME+like+%27Pen%2A%27\n",
		},
		{
			name: "entity with json sort",
			args: []string{"compile", "items", "--filter", `{"code":{"in":["A","B"]}}`, "--sort", `["CODE","desc"]`, "--limit", "10"},
			want: "q:     (CODE eq 'A' or CODE eq 'B')\n" +
				"query: sort=CODE+desc&limit=10&q=%28CODE+eq+%27A%27+or+CODE+eq+%27B%27%29\n" +
				"path:  /items?sort=CODE+desc&limit=10&q=%28CODE+eq+%27A%27+or+CODE+eq+%27B%27%29\n",
		},
		{
			name: "explicit q wins",
			args: []string{"compile", "-q", "CODE eq 'X'", "--filter", `{"code":"Y"}`, "--sort", "CODE desc"},
			want: "q:     CODE eq 'X'\n" +
				"query: sort=CODE+desc&q=CODE+eq+%27X%27\n",
		},
		{
			name: "list options",
			args: []string{"compile", "--fields", "CODE,NAME", "--offset", "20", "--count", "--expand", "TRANSACTIONS"},
			want: "q:     \n" +
				"query: fields=CODE%2CNAME&offset=20&count=true&expand=TRANSACTIONS\n",
		},
		{name: "bad operator", args: []string{"compile", "--filter", `{"code":{"between":[1,2]}}`}, wantErr: true},
		{name: "bad json", args: []string{"compile", "--filter", `{"code":`}, wantErr: true},
		{name: "bad sort", args: []string{"compile", "--sort", `["CODE","sideways"]`}, wantErr: true},
		{name: "unknown entity", args: []string{"compile", "warehouses"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &fakeRequester{}
			out, err := execute(t, newTestApp(req), tt.args...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Empty(t, req.calls, "compile must not call the API")
		})
	}
}

func TestEntitiesCommand(t *testing.T) {
	out, err := execute(t, newTestApp(&fakeRequester{}), "entities")
	require.NoError(t, err)
	assert.Contains(t, out, "SalesInvoices")
	assert.Contains(t, out, "SetDefIntValue,ExportToXML")

	out, err = execute(t, newTestApp(&fakeRequester{}), "entities", "items")
	require.NoError(t, err)
	assert.Contains(t, out, "Items (/items)")
	assert.Contains(t, out, "CARD_TYPE")
	assert.Contains(t, out, "field,value")
}

func TestSearchCommand(t *testing.T) {
	req := &fakeRequester{response: `{"items":[{"CODE":"B1"}],"count":1}`}

	out, err := execute(t, newTestApp(req), "search", "banks",
		"--filter", `{"code":{"like":"B"}}`, "--sort", "CODE desc", "--limit", "5")
	require.NoError(t, err)

	assert.Equal(t, []string{"GET /banks?sort=CODE+desc&limit=5&q=CODE+like+%27B%2A%27"}, req.calls)
	assert.Contains(t, out, `"CODE": "B1"`)
}

func TestStrictFields(t *testing.T) {
	t.Run("compile rejects unknown field", func(t *testing.T) {
		_, err := execute(t, newTestApp(&fakeRequester{}), "compile", "items", "--strict-fields",
			"--filter", `{"bogus":1}`)
		assert.True(t, apperror.HasCode(err, apperror.CodeUnknownField))
	})
	t.Run("compile accepts declared field", func(t *testing.T) {
		out, err := execute(t, newTestApp(&fakeRequester{}), "compile", "items", "--strict-fields",
			"--filter", `{"code":"A"}`)
		require.NoError(t, err)
		assert.Contains(t, out, "q:     CODE eq 'A'")
	})
	t.Run("search sends nothing", func(t *testing.T) {
		req := &fakeRequester{}
		_, err := execute(t, newTestApp(req), "search", "banks", "--strict-fields",
			"--filter", `{"bogus":1}`)
		assert.True(t, apperror.HasCode(err, apperror.CodeUnknownField))
		assert.Empty(t, req.calls)
	})
	t.Run("lenient by default", func(t *testing.T) {
		out, err := execute(t, newTestApp(&fakeRequester{}), "compile", "items",
			"--filter", `{"bogusField":1}`)
		require.NoError(t, err)
		assert.Contains(t, out, "q:     BOGUS_FIELD eq 1")
	})
}

func TestGetCommand(t *testing.T) {
	req := &fakeRequester{response: `{"INTERNAL_REFERENCE":3,"CODE":"S1"}`}

	out, err := execute(t, newTestApp(req), "get", "salesmen", "3", "--fields", "CODE")
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /salesmen/3?fields=CODE"}, req.calls)
	assert.Contains(t, out, `"CODE": "S1"`)

	_, err = execute(t, newTestApp(req), "get", "salesmen", "0")
	assert.Error(t, err)
}

func TestInvokeCommand(t *testing.T) {
	t.Run("params", func(t *testing.T) {
		req := &fakeRequester{}
		_, err := execute(t, newTestApp(req), "invoke", "items", "SetDefIntValue", "--id", "7", "-p", "CARD_TYPE", "-p", "2")
		require.NoError(t, err)
		assert.Equal(t, []string{"GET /items/7/SetDefIntValue/CARD_TYPE/2"}, req.calls)
		assert.Nil(t, req.bodies[0])
	})

	t.Run("raw output", func(t *testing.T) {
		req := &fakeRequester{response: "<ITEMS/>"}
		out, err := execute(t, newTestApp(req), "invoke", "items", "ExportToXML", "--id", "7")
		require.NoError(t, err)
		assert.Equal(t, "<ITEMS/>\n", out)
	})

	t.Run("body", func(t *testing.T) {
		req := &fakeRequester{response: `{"ok":true}`}
		_, err := execute(t, newTestApp(req), "invoke", "salesOrders", "ApplyCampaign", "--id", "12", "--body", `{"CAMPAIGN":"X"}`)
		require.NoError(t, err)
		require.Len(t, req.calls, 1)
		assert.Equal(t, json.RawMessage(`{"CAMPAIGN":"X"}`), req.bodies[0])
	})

	t.Run("undeclared action", func(t *testing.T) {
		req := &fakeRequester{}
		_, err := execute(t, newTestApp(req), "invoke", "banks", "Explode", "--id", "1")
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQueryOption))
		assert.Empty(t, req.calls)
	})

	t.Run("invalid body", func(t *testing.T) {
		_, err := execute(t, newTestApp(&fakeRequester{}), "invoke", "salesOrders", "ApplyCampaign", "--id", "12", "--body", "{")
		assert.Error(t, err)
	})
}

func TestMirrorSyncCommand_RequiresEntity(t *testing.T) {
	_, err := execute(t, newTestApp(&fakeRequester{}), "mirror", "sync")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one entity")
}
