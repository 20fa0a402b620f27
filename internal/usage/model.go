package usage

// Snapshot is a point-in-time read of the daily quota. Eligibility decisions
// are made on the snapshot taken before the AI call; the admission after a
// successful call may therefore overshoot MaxUsers by at most the number of
// calls in flight at the boundary.
type Snapshot struct {
	Date       string `json:"date"`
	UsersCount int    `json:"usersCount"`
	MaxUsers   int    `json:"maxUsers"`
}

func (s Snapshot) HasCapacity() bool {
	return s.UsersCount < s.MaxUsers
}

func (s Snapshot) Remaining() int {
	if r := s.MaxUsers - s.UsersCount; r > 0 {
		return r
	}
	return 0
}

// Status is the payload of GET /api/usage/check. HasCapacity folds in AI
// availability: a service with no credential configured reports no capacity
// regardless of the numeric quota.
type Status struct {
	HasCapacity bool `json:"hasCapacity"`
	UsersCount  int  `json:"usersCount"`
	MaxUsers    int  `json:"maxUsers"`
	Remaining   int  `json:"remaining"`
}

// Stats is the payload of GET /api/admin/usage-stats.
type Stats struct {
	Date            string  `json:"date"`
	UsersCount      int     `json:"usersCount"`
	MaxUsers        int     `json:"maxUsers"`
	Remaining       int     `json:"remaining"`
	UtilizationRate float64 `json:"utilizationRate"`
	ResetTime       string  `json:"resetTime"`
	AIEnabled       bool    `json:"aiEnabled"`
}
