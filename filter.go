package main

import "strings"

const statusFilterAll = "all"

// FilterMatches narrows a ticket match list by a free-text query and a
// status filter. The query matches case-insensitively as a substring of
// the ticket key or summary; the status filter is an exact enum match
// unless it is "all". Both predicates are ANDed and input order is
// preserved.
func FilterMatches(matches []TicketMatch, searchTerm, statusFilter string) []TicketMatch {
	statusActive := statusFilter != "" && statusFilter != statusFilterAll
	if searchTerm == "" && !statusActive {
		return matches
	}

	query := strings.ToLower(searchTerm)
	var result []TicketMatch
	for _, match := range matches {
		if query != "" {
			key := strings.ToLower(match.Ticket.Key)
			summary := strings.ToLower(match.Ticket.Summary)
			if !strings.Contains(key, query) && !strings.Contains(summary, query) {
				continue
			}
		}
		if statusActive && string(match.Status) != statusFilter {
			continue
		}
		result = append(result, match)
	}
	return result
}

// cycleStatusFilter advances the status filter one step:
// all -> COMPLETED -> LIKELY_DONE -> IN_PROGRESS -> PENDING -> all.
func cycleStatusFilter(current string) string {
	for i, status := range matchStatusOrder {
		if string(status) != current {
			continue
		}
		if i == len(matchStatusOrder)-1 {
			return statusFilterAll
		}
		return string(matchStatusOrder[i+1])
	}
	return string(matchStatusOrder[0])
}
