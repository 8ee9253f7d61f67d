// Package mocks provides mock implementations of the ports for tests.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockPartsAPI(ctrl)
//	api.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Return(page, nil)
package mocks

// Generate mock for the PartsAPI interface from internal/ports.
// This creates MockPartsAPI covering the catalog and credential endpoints:
// List, Show, Create, Update, Delete, SearchProducts, ServiceTitles, SendInquiry,
// Login, SendOTP, ResetPassword
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=parts_api_mock.go github.com/snmtc/parts-web/internal/ports PartsAPI
