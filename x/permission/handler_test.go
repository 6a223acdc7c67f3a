package permission

import (
	"context"
	"encoding/json"
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

func postApplyConditions(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/apply-conditions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerApplyConditions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockPermissionService(ctrl)
	mockService.EXPECT().
		ApplyConditions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, items []core.RequestItem) ([]core.Verdict, error) {
			assert.Len(t, items, 2)
			assert.Equal(t, "a", items[0].ID)
			assert.Nil(t, items[0].Conditions)
			assert.NotNil(t, items[1].Conditions)
			return []core.Verdict{
				{ID: "a", Result: core.AuthorizeResultAllow},
				{ID: "b", Result: core.AuthorizeResultDeny},
			}, nil
		})

	c, rec := postApplyConditions(`{
		"items": [
			{"id": "a", "resourceRef": "resource-1", "resourceType": "widget"},
			{"id": "b", "resourceRef": "resource-2", "resourceType": "widget",
				"conditions": {"rule": "rule2", "resourceType": "widget"}}
		]
	}`)

	err := NewHandler(mockService).ApplyConditions(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Items []core.Verdict `json:"items"`
	}
	err = json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, []core.Verdict{
		{ID: "a", Result: core.AuthorizeResultAllow},
		{ID: "b", Result: core.AuthorizeResultDeny},
	}, response.Items)
}

func TestHandlerApplyConditionsMalformedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// the service must not be reached
	handler := NewHandler(mock_core.NewMockPermissionService(ctrl))

	for _, body := range []string{
		`{"items": [`,
		`{"items": [{"id": "a", "resourceRef": "r", "resourceType": "widget", "conditions": {}}]}`,
		`{"items": [{"id": "a", "resourceRef": "r", "resourceType": "widget", "conditions": {"allOf": [], "anyOf": []}}]}`,
	} {
		c, rec := postApplyConditions(body)
		err := handler.ApplyConditions(c)
		assert.NoError(t, err, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var response map[string]string
		json.Unmarshal(rec.Body.Bytes(), &response)
		assert.Equal(t, "Invalid request", response["error"], body)
	}
}

func TestHandlerApplyConditionsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockPermissionService(ctrl)
	mockService.EXPECT().
		ApplyConditions(gomock.Any(), gomock.Any()).
		Return(nil, core.NewErrorInvalid("unexpected resource types: gadget"))

	c, rec := postApplyConditions(`{"items": [{"id": "a", "resourceRef": "r", "resourceType": "gadget"}]}`)

	err := NewHandler(mockService).ApplyConditions(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response map[string]string
	json.Unmarshal(rec.Body.Bytes(), &response)
	assert.Equal(t, "Invalid request", response["error"])
	assert.Equal(t, "unexpected resource types: gadget", response["message"])
}

func TestHandlerApplyConditionsUnsupported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockPermissionService(ctrl)
	mockService.EXPECT().
		ApplyConditions(gomock.Any(), gomock.Any()).
		Return(nil, core.NewErrorUnsupported())

	c, rec := postApplyConditions(`{"items": [{"id": "a", "resourceRef": "r", "resourceType": "widget", "conditions": {"rule": "rule1", "resourceType": "widget"}}]}`)

	err := NewHandler(mockService).ApplyConditions(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	var response map[string]string
	json.Unmarshal(rec.Body.Bytes(), &response)
	assert.Equal(t, "this plugin does not expose any permission rule or cannot evaluate conditional decisions", response["message"])
}

func TestHandlerApplyConditionsInternalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockPermissionService(ctrl)
	mockService.EXPECT().
		ApplyConditions(gomock.Any(), gomock.Any()).
		Return(nil, assert.AnError)

	c, rec := postApplyConditions(`{"items": []}`)

	err := NewHandler(mockService).ApplyConditions(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandlerMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock_core.NewMockPermissionService(ctrl)
	mockService.EXPECT().
		Metadata(gomock.Any()).
		Return(core.Metadata{
			Permissions: []core.Permission{
				{
					Type:         "resource",
					Name:         "widget.read",
					Attributes:   core.PermissionAttributes{Action: "read"},
					ResourceType: "widget",
				},
			},
			Rules: []core.RuleMetadata{
				{
					Name:         "rule1",
					Description:  "matches every resource",
					ResourceType: "widget",
					ParamsSchema: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"foo": map[string]any{"type": "string"},
							"bar": map[string]any{"type": "number"},
						},
						"required": []any{"foo", "bar"},
					},
				},
			},
		}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metadata", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewHandler(mockService).Metadata(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	err = json.Unmarshal(rec.Body.Bytes(), &response)
	assert.NoError(t, err)

	permissions := response["permissions"].([]any)
	assert.Len(t, permissions, 1)
	permission := permissions[0].(map[string]any)
	assert.Equal(t, "widget.read", permission["name"])
	assert.Equal(t, map[string]any{"action": "read"}, permission["attributes"])

	rules := response["rules"].([]any)
	assert.Len(t, rules, 1)
	published := rules[0].(map[string]any)
	assert.Equal(t, "rule1", published["name"])
	schema := published["paramsSchema"].(map[string]any)
	assert.Equal(t, []any{"foo", "bar"}, schema["required"])
	assert.Contains(t, schema["properties"], "foo")
}
