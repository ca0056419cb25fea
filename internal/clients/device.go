package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// ErrNoPermission means the user has not granted the skill access to the
// device's registered address or location.
var ErrNoPermission = errors.New("device address permission not granted")

// DeviceAddressAPI fetches the registered street address of the user's
// device from the voice platform.
type DeviceAddressAPI struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// NewDeviceAddressAPI creates a device-address client.
func NewDeviceAddressAPI(baseURL string, httpc *http.Client, logger *zap.Logger) *DeviceAddressAPI {
	return &DeviceAddressAPI{baseURL: baseURL, httpc: httpc, logger: logger}
}

// Address returns the first address line registered for the device, or ""
// when the device has no address on file. ErrNoPermission is returned when
// the user has not granted address access.
func (d *DeviceAddressAPI) Address(ctx context.Context, deviceID, accessToken string) (string, error) {
	u := fmt.Sprintf("%s/%s/settings/address", d.baseURL, deviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := d.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusUnauthorized:
		return "", ErrNoPermission
	default:
		return "", fmt.Errorf("%w: status %d", ErrBadAPIResponse, resp.StatusCode)
	}

	var payload struct {
		AddressLine1 *string `json:"addressLine1"`
	}
	if err := decodeJSONBody(resp, &payload); err != nil {
		return "", err
	}
	if payload.AddressLine1 == nil {
		d.logger.Debug("device has no registered address", zap.String("device_id", deviceID))
		return "", nil
	}
	return *payload.AddressLine1, nil
}
