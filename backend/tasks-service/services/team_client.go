package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"task-tracker/backend/tasks-service/logging"
	"task-tracker/backend/tasks-service/models"
	"task-tracker/backend/utils"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamClient poziva users-service za članove tima kroz circuit breaker.
// Svaki pad (mreža, ne-2xx odgovor, otvoren breaker) se mapira u
// ServiceUnavailable da bi pozivalac mogao da ponovi zahtev.
type TeamClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewTeamClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *TeamClient {
	return &TeamClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		breaker:    breaker,
	}
}

func (c *TeamClient) TeamMembers(ctx context.Context, leadID primitive.ObjectID, authToken string) ([]models.TeamMember, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		url := fmt.Sprintf("%s/api/users/team-members/%s", c.baseURL, leadID.Hex())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", authToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("users service returned status %d", resp.StatusCode)
		}

		var members []models.TeamMember
		if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
			return nil, err
		}
		return members, nil
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: TEAM_MEMBERS_FETCH_FAILED, Description: Failed to fetch team members for lead %s: %v", leadID.Hex(), err)
		return nil, fmt.Errorf("users service unreachable: %w", utils.ErrServiceUnavailable)
	}
	return result.([]models.TeamMember), nil
}
