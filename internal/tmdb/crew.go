package tmdb

import "strings"

// CrewMember is a single credits entry from a detail payload.
type CrewMember struct {
	Job  string `json:"job"`
	Name string `json:"name"`
}

var (
	directorJobs = []string{"Director"}
	writerJobs   = []string{"Writer", "Screenplay", "Story"}
	producerJobs = []string{"Producer", "Executive Producer", "Co-Producer"}
)

// firstNameByJob returns the first crew member name matching any job title.
func firstNameByJob(crew []CrewMember, jobs []string) *string {
	for _, member := range crew {
		if !jobMatches(member.Job, jobs) {
			continue
		}
		if member.Name == "" {
			continue
		}
		name := member.Name
		return &name
	}
	return nil
}

// namesByJob collects unique crew member names matching any job title,
// preserving payload order, joined into one string.
func namesByJob(crew []CrewMember, jobs []string) *string {
	var names []string
	seen := make(map[string]struct{})
	for _, member := range crew {
		if !jobMatches(member.Job, jobs) {
			continue
		}
		if member.Name == "" {
			continue
		}
		if _, dup := seen[member.Name]; dup {
			continue
		}
		seen[member.Name] = struct{}{}
		names = append(names, member.Name)
	}
	if len(names) == 0 {
		return nil
	}
	joined := strings.Join(names, ", ")
	return &joined
}

func jobMatches(job string, jobs []string) bool {
	for _, candidate := range jobs {
		if job == candidate {
			return true
		}
	}
	return false
}
