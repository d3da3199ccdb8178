package ai

import "context"

// MockClient permite tests sin llamar al webhook real.
type MockClient struct {
	Response    string
	LastRequest Request
	LastPrompt  string
	SendCalls   int
}

func (m *MockClient) Send(_ context.Context, req Request) string {
	m.SendCalls++
	m.LastRequest = req
	return m.Response
}

func (m *MockClient) SendPrompt(_ context.Context, message string) string {
	m.SendCalls++
	m.LastPrompt = message
	return m.Response
}
