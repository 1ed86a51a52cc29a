package config

import (
	"time"

	"github.com/spf13/pflag"
)

// MockConfigHook satisfies config.Hook. Unset mocks fall back to zero values.
type MockConfigHook struct {
	GetStringMock      func(key string) string
	GetBoolMock        func(key string) bool
	GetIntMock         func(key string) int
	GetDurationMock    func(key string) time.Duration
	GetStringSliceMock func(key string) []string
	IsSetMock          func(key string) bool
	SetMock            func(k string, v any)
	BindFlagMock       func(string, *pflag.Flag) error
	GetProfileMock     func() string
	GetPathMock        func() string
}

func (m *MockConfigHook) GetString(key string) string {
	if m.GetStringMock == nil {
		return ""
	}
	return m.GetStringMock(key)
}

func (m *MockConfigHook) GetBool(key string) bool {
	if m.GetBoolMock == nil {
		return false
	}
	return m.GetBoolMock(key)
}

func (m *MockConfigHook) GetInt(key string) int {
	if m.GetIntMock == nil {
		return 0
	}
	return m.GetIntMock(key)
}

func (m *MockConfigHook) GetDuration(key string) time.Duration {
	if m.GetDurationMock == nil {
		return 0
	}
	return m.GetDurationMock(key)
}

func (m *MockConfigHook) GetStringSlice(key string) []string {
	if m.GetStringSliceMock == nil {
		return nil
	}
	return m.GetStringSliceMock(key)
}

func (m *MockConfigHook) IsSet(key string) bool {
	if m.IsSetMock == nil {
		return false
	}
	return m.IsSetMock(key)
}

func (m *MockConfigHook) Set(k string, v any) {
	if m.SetMock != nil {
		m.SetMock(k, v)
	}
}

func (m *MockConfigHook) BindFlag(configPath string, f *pflag.Flag) error {
	if m.BindFlagMock == nil {
		return nil
	}
	return m.BindFlagMock(configPath, f)
}

func (m *MockConfigHook) GetProfile() string {
	if m.GetProfileMock == nil {
		return "default"
	}
	return m.GetProfileMock()
}

func (m *MockConfigHook) GetPath() string {
	if m.GetPathMock == nil {
		return ""
	}
	return m.GetPathMock()
}
