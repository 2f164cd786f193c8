package domain

// SportQuota caps the roster of one sport/school pair. A nil bound
// means unlimited. Quotas are advisory: evaluation feeds dashboard
// warnings, it never blocks an admin action.
type SportQuota struct {
	ID               uint `json:"id"`
	SportID          uint `json:"sport_id"`
	SchoolID         uint `json:"school_id"`
	ParticipantQuota *int `json:"participant_quota"`
	TeamQuota        *int `json:"team_quota"`
}

// QuotaUsage is the occupancy computed from a roster against a quota.
type QuotaUsage struct {
	ParticipantCount     int  `json:"participant_count"`
	TeamCount            int  `json:"team_count"`
	ParticipantOverQuota bool `json:"participant_over_quota"`
	TeamOverQuota        bool `json:"team_over_quota"`
}

// Evaluate computes occupancy for the quota's sport/school pair.
// Substitutes count the same as starters. Enrollments for another
// sport or school are ignored.
func (q SportQuota) Evaluate(roster []SportEnrollment) QuotaUsage {
	teams := make(map[uint]struct{})

	var usage QuotaUsage
	for _, e := range roster {
		if e.SportID != q.SportID || e.SchoolID != q.SchoolID {
			continue
		}

		usage.ParticipantCount++
		if e.TeamID != nil {
			teams[*e.TeamID] = struct{}{}
		}
	}
	usage.TeamCount = len(teams)

	usage.ParticipantOverQuota = q.ParticipantQuota != nil && usage.ParticipantCount > *q.ParticipantQuota
	usage.TeamOverQuota = q.TeamQuota != nil && usage.TeamCount > *q.TeamQuota

	return usage
}

// WouldExceedParticipants reports whether adding one enrollment to the
// roster would push the participant count past the quota.
func (q SportQuota) WouldExceedParticipants(roster []SportEnrollment) bool {
	if q.ParticipantQuota == nil {
		return false
	}

	return q.Evaluate(roster).ParticipantCount+1 > *q.ParticipantQuota
}

// WouldExceedTeams reports whether creating one more team for the
// sport/school pair would push the team count past the quota.
func (q SportQuota) WouldExceedTeams(roster []SportEnrollment) bool {
	if q.TeamQuota == nil {
		return false
	}

	return q.Evaluate(roster).TeamCount+1 > *q.TeamQuota
}

// RoleCategory keys the per-school general quota, which caps role
// counts across all sports.
type RoleCategory string

const (
	CategoryAthlete          RoleCategory = "athlete"
	CategoryNonAthlete       RoleCategory = "non_athlete"
	CategoryCameraman        RoleCategory = "cameraman"
	CategoryPompom           RoleCategory = "pompom"
	CategoryFanfare          RoleCategory = "fanfare"
	CategoryAthleteCameraman RoleCategory = "athlete_cameraman"
	CategoryAthletePompom    RoleCategory = "athlete_pompom"
	CategoryAthleteFanfare   RoleCategory = "athlete_fanfare"
)

// GeneralQuota caps per-role participant counts for one school,
// across all sports. Nil bounds are unlimited.
type GeneralQuota struct {
	ID       uint `json:"id"`
	SchoolID uint `json:"school_id"`

	Athlete          *int `json:"athlete_quota"`
	NonAthlete       *int `json:"non_athlete_quota"`
	Cameraman        *int `json:"cameraman_quota"`
	Pompom           *int `json:"pompom_quota"`
	Fanfare          *int `json:"fanfare_quota"`
	AthleteCameraman *int `json:"athlete_cameraman_quota"`
	AthletePompom    *int `json:"athlete_pompom_quota"`
	AthleteFanfare   *int `json:"athlete_fanfare_quota"`
}

// CategoryUsage is the occupancy of one role category.
type CategoryUsage struct {
	Category  RoleCategory `json:"category"`
	Count     int          `json:"count"`
	Quota     *int         `json:"quota"`
	OverQuota bool         `json:"over_quota"`
}

func matchesCategory(r RoleSet, c RoleCategory) bool {
	switch c {
	case CategoryAthlete:
		return r.Athlete
	case CategoryNonAthlete:
		return r.Any() && !r.Athlete
	case CategoryCameraman:
		return r.Cameraman
	case CategoryPompom:
		return r.Pompom
	case CategoryFanfare:
		return r.Fanfare
	case CategoryAthleteCameraman:
		return r.Athlete && r.Cameraman
	case CategoryAthletePompom:
		return r.Athlete && r.Pompom
	case CategoryAthleteFanfare:
		return r.Athlete && r.Fanfare
	}

	return false
}

// Evaluate computes per-category occupancy for the school's
// participants.
func (q GeneralQuota) Evaluate(participants []Participant) []CategoryUsage {
	bounds := []struct {
		category RoleCategory
		quota    *int
	}{
		{CategoryAthlete, q.Athlete},
		{CategoryNonAthlete, q.NonAthlete},
		{CategoryCameraman, q.Cameraman},
		{CategoryPompom, q.Pompom},
		{CategoryFanfare, q.Fanfare},
		{CategoryAthleteCameraman, q.AthleteCameraman},
		{CategoryAthletePompom, q.AthletePompom},
		{CategoryAthleteFanfare, q.AthleteFanfare},
	}

	usages := make([]CategoryUsage, 0, len(bounds))
	for _, b := range bounds {
		count := 0
		for _, p := range participants {
			if matchesCategory(p.Roles, b.category) {
				count++
			}
		}

		usages = append(usages, CategoryUsage{
			Category:  b.category,
			Count:     count,
			Quota:     b.quota,
			OverQuota: b.quota != nil && count > *b.quota,
		})
	}

	return usages
}
