package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snmtc/parts-web/internal/domain/model"
	"github.com/snmtc/parts-web/internal/domain/resource"
	"github.com/snmtc/parts-web/internal/mocks"
	"github.com/snmtc/parts-web/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDashboardService_Load(t *testing.T) {
	api := mocks.NewMockPartsAPI(gomock.NewController(t))
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	svc := NewDashboardService(DashboardServiceOptions{API: api, Now: func() time.Time { return now }})

	inquiries := make([]model.Record, 0, 7)
	for i := range 7 {
		inquiries = append(inquiries, model.Record{"id": float64(i + 1), "user_name": "Customer"})
	}

	api.EXPECT().SearchProducts(gomock.Any(), ports.ListQuery{Page: 1}).
		Return(model.Page{Items: make([]model.Record, 10), Count: 57}, nil)
	api.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sc resource.Schema, q ports.ListQuery) (model.Page, error) {
			switch sc.Name {
			case resource.Category:
				return model.Page{Items: make([]model.Record, 4)}, nil
			case resource.Service:
				return model.Page{}, errors.New("down")
			case resource.Inquiry:
				assert.Equal(t, "2026-10-14", q.From)
				assert.Equal(t, "2026-10-14", q.To)
				return model.Page{Items: inquiries}, nil
			}
			return model.Page{}, errors.New("unexpected schema " + sc.Name)
		}).Times(3)

	d := svc.Load(context.Background())
	require.Len(t, d.Stats, 4)
	assert.Equal(t, 57, d.Stats[0].Value)
	assert.Equal(t, 4, d.Stats[1].Value)
	assert.Equal(t, -1, d.Stats[2].Value)
	assert.Equal(t, 7, d.Stats[3].Value)
	assert.Len(t, d.Recent, 5)
	assert.Equal(t, "/admin/notification", d.Stats[3].Link)
}
