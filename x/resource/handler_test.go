package resource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sstasik645/backstage/core"
	mock_core "github.com/sstasik645/backstage/core/mock"
)

func TestHandlerGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockResourceService(ctrl)
	mockService.EXPECT().
		Get(gomock.Any(), "component:default/service-a").
		Return(core.Resource{Ref: "component:default/service-a", Kind: "component"}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/resources/:ref")
	c.SetParamNames("ref")
	c.SetParamValues("component:default/service-a")

	err := NewHandler(mockService).Get(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "component:default/service-a")
}

func TestHandlerGetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockResourceService(ctrl)
	mockService.EXPECT().
		Get(gomock.Any(), "component:default/nonexistent").
		Return(core.Resource{}, core.NewErrorNotFound())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/resources/:ref")
	c.SetParamNames("ref")
	c.SetParamValues("component:default/nonexistent")

	err := NewHandler(mockService).Get(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerUpsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockResourceService(ctrl)
	mockService.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, resource core.Resource) (core.Resource, error) {
			// the path param wins over any ref in the body
			assert.Equal(t, "component:default/service-a", resource.Ref)
			assert.Equal(t, "team-a", resource.Owner)
			return resource, nil
		})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/",
		strings.NewReader(`{"ref": "component:default/spoofed", "kind": "component", "owner": "team-a"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/resources/:ref")
	c.SetParamNames("ref")
	c.SetParamValues("component:default/service-a")

	err := NewHandler(mockService).Upsert(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockResourceService(ctrl)
	mockService.EXPECT().
		Delete(gomock.Any(), "component:default/service-a").
		Return(nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/resources/:ref")
	c.SetParamNames("ref")
	c.SetParamValues("component:default/service-a")

	err := NewHandler(mockService).Delete(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
