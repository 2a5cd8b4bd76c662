package types

// HomeTypeShared marks the virtual home that groups devices shared from
// another account. The API leaves its name empty (or vendor-internal), so
// clients force it to SharedDevicesName.
const HomeTypeShared = 0

// SharedDevicesName is the display name used for the shared-devices home.
const SharedDevicesName = "SHARED_DEVICES"

// User holds account details returned by the user info endpoint.
type User struct {
	Username            string `json:"username"`
	Nickname            string `json:"nickname"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	TimezoneID          string `json:"timeZoneId"`
	Timezone            string `json:"timeZone"` // offset form, e.g. GMT-05:00
	TimezoneName        string `json:"timezoneName"`
	DatacenterPhoneCode int    `json:"datacenterPhoneCode"`
	Datacenter          string `json:"datacenter"`
	DatacenterHost      string `json:"datacenterHost"`
}

// Home represents a home (a grouping of devices) in the ECOS cloud.
type Home struct {
	ID           string   `json:"homeId"`
	Name         string   `json:"homeName"`
	Type         int      `json:"homeType"`
	Longitude    *float64 `json:"longitude"`
	Latitude     *float64 `json:"latitude"`
	DeviceNumber int      `json:"homeDeviceNumber"`
	RelationType int      `json:"relationType"`
	CreateTime   Millis   `json:"createTime"`
	UpdateTime   Millis   `json:"updateTime"`
}

// Shared reports whether this is the virtual home holding shared devices.
func (h Home) Shared() bool {
	return h.Type == HomeTypeShared
}

// Device represents an energy storage device. Only the fields common to the
// per-home and all-homes device listings are kept; the endpoints disagree on
// the rest.
type Device struct {
	ID         string  `json:"deviceId"`
	Alias      string  `json:"deviceAliasName"`
	State      int     `json:"state"`
	VPP        bool    `json:"vpp"`
	Type       int     `json:"type"`
	Serial     string  `json:"deviceSn"`
	AgentID    string  `json:"agentId"`
	Longitude  float64 `json:"lon"`
	Latitude   float64 `json:"lat"`
	DeviceType string  `json:"deviceType"`
	Master     int     `json:"master"`
}
