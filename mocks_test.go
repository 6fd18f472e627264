// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"context"
	"net"

	"github.com/stretchr/testify/mock"
)

type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context) (interface{}, error) {
	arguments := m.Called(ctx)
	return arguments.Get(0), arguments.Error(1)
}

type mockExecutorFactory struct {
	mock.Mock
}

func (m *mockExecutorFactory) New(conn Connection, kind QueryKind, queryText string, params ...interface{}) (Executor, error) {
	arguments := m.Called(conn, kind, queryText, params)
	first, _ := arguments.Get(0).(Executor)
	return first, arguments.Error(1)
}

type mockConnection struct {
	mock.Mock
}

func (m *mockConnection) ClientHostname() (string, error) {
	arguments := m.Called()
	return arguments.String(0), arguments.Error(1)
}

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error) {
	arguments := m.Called(ctx, host)
	first, _ := arguments.Get(0).([]net.IPAddr)
	return first, arguments.Error(1)
}

// textExecutor is a stub execution that exposes its query text.
type textExecutor struct {
	text   string
	result interface{}
	err    error

	calls     int
	onExecute func(context.Context)
}

func (e *textExecutor) Execute(ctx context.Context) (interface{}, error) {
	e.calls++
	if e.onExecute != nil {
		e.onExecute(ctx)
	}

	return e.result, e.err
}

func (e *textExecutor) QueryText() string {
	return e.text
}
