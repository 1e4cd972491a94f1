package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"atlas-assistant/internal/assistant"
	"atlas-assistant/internal/assistant/mocks"
)

func TestChatHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		body          string
		mockSetup     func(*mocks.MockEngine)
		wantStatus    int
		wantError     string
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "successful question",
			method: http.MethodPost,
			body:   `{"message": "What is CEAS?"}`,
			mockSetup: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), assistant.AskRequest{Question: "What is CEAS?"}).
					Return(assistant.AskResponse{
						Answer:      "CEAS is the Common European Asylum System.",
						UsedSources: []string{"frameworks/ceas.md"},
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ChatResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if !strings.Contains(resp.Answer, "CEAS") {
					t.Errorf("answer = %q", resp.Answer)
				}
				if len(resp.UsedSources) != 1 || resp.UsedSources[0] != "frameworks/ceas.md" {
					t.Errorf("used_sources = %v", resp.UsedSources)
				}
			},
		},
		{
			name:   "message is trimmed before the engine sees it",
			method: http.MethodPost,
			body:   `{"message": "  What is CEAS?  "}`,
			mockSetup: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), assistant.AskRequest{Question: "What is CEAS?"}).
					Return(assistant.AskResponse{Answer: "ok", UsedSources: []string{}}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "empty sources serialize as an empty array",
			method: http.MethodPost,
			body:   `{"message": "What is CEAS?"}`,
			mockSetup: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(assistant.AskResponse{Answer: "ok", UsedSources: []string{}}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if !strings.Contains(w.Body.String(), `"used_sources":[]`) {
					t.Errorf("body = %q, want empty used_sources array", w.Body.String())
				}
			},
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "not json",
			mockSetup:  func(m *mocks.MockEngine) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid JSON body.",
		},
		{
			name:       "empty message",
			method:     http.MethodPost,
			body:       `{"message": ""}`,
			mockSetup:  func(m *mocks.MockEngine) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Message is required.",
		},
		{
			name:       "whitespace-only message",
			method:     http.MethodPost,
			body:       `{"message": "   "}`,
			mockSetup:  func(m *mocks.MockEngine) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Message is required.",
		},
		{
			name:       "GET is not found",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockEngine) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "PUT is not found",
			method:     http.MethodPut,
			body:       `{"message": "What is CEAS?"}`,
			mockSetup:  func(m *mocks.MockEngine) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "engine error becomes 500",
			method: http.MethodPost,
			body:   `{"message": "What is CEAS?"}`,
			mockSetup: func(m *mocks.MockEngine) {
				m.EXPECT().
					Ask(gomock.Any(), gomock.Any()).
					Return(assistant.AskResponse{}, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockEngine := mocks.NewMockEngine(ctrl)
			tt.mockSetup(mockEngine)
			handler := NewChatHandler(mockEngine)

			req := httptest.NewRequest(tt.method, "/api/chat", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantError != "" {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("failed to decode error response: %v", err)
				}
				if resp.Error != tt.wantError {
					t.Errorf("error = %q, want %q", resp.Error, tt.wantError)
				}
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}
