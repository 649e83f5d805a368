package rest

import "request-tracker/core"

// RequestResponse keeps the wire format the dashboards already consume,
// including the Mongo-era "_id" key.
type RequestResponse struct {
	ID                      string  `json:"_id"`
	ReferenceNumber         string  `json:"referenceNumber"`
	Timestamp               string  `json:"timestamp"`
	Email                   string  `json:"email"`
	Name                    string  `json:"name"`
	TypeOfClient            string  `json:"typeOfClient"`
	Classification          string  `json:"classification"`
	ProjectTitle            string  `json:"projectTitle"`
	PhilgepsReferenceNumber string  `json:"philgepsReferenceNumber"`
	ProductType             string  `json:"productType"`
	RequestType             string  `json:"requestType"`
	DateNeeded              string  `json:"dateNeeded"`
	SpecialInstructions     string  `json:"specialInstructions"`
	AssignedTo              string  `json:"assignedTo"`
	Status                  int     `json:"status"`
	CompletedAt             *string `json:"completedAt"`
	CanceledAt              *string `json:"canceledAt,omitempty"`
	CancellationReason      string  `json:"cancellationReason,omitempty"`
	FileURL                 string  `json:"fileUrl,omitempty"`
	FileName                string  `json:"fileName,omitempty"`
	RequesterFileURL        string  `json:"requesterFileUrl,omitempty"`
	RequesterFileName       string  `json:"requesterFileName,omitempty"`
}

func toRequestResponse(request core.Request) RequestResponse {
	return RequestResponse{
		ID:                      request.ID,
		ReferenceNumber:         request.ReferenceNumber,
		Timestamp:               request.Timestamp,
		Email:                   request.Email,
		Name:                    request.Name,
		TypeOfClient:            request.TypeOfClient,
		Classification:          request.Classification,
		ProjectTitle:            request.ProjectTitle,
		PhilgepsReferenceNumber: request.PhilgepsReferenceNumber,
		ProductType:             request.ProductType,
		RequestType:             request.RequestType,
		DateNeeded:              request.DateNeeded,
		SpecialInstructions:     request.SpecialInstructions,
		AssignedTo:              request.AssignedTo,
		Status:                  int(request.Status),
		CompletedAt:             request.CompletedAt,
		CanceledAt:              request.CanceledAt,
		CancellationReason:      request.CancellationReason,
		FileURL:                 request.FileURL,
		FileName:                request.FileName,
		RequesterFileURL:        request.RequesterFileURL,
		RequesterFileName:       request.RequesterFileName,
	}
}

func toRequestResponses(requests []core.Request) []RequestResponse {
	responses := make([]RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, toRequestResponse(request))
	}
	return responses
}

type CreateRequestRequest struct {
	Email                   string `json:"email"`
	Name                    string `json:"name"`
	TypeOfClient            string `json:"typeOfClient"`
	Classification          string `json:"classification"`
	ProjectTitle            string `json:"projectTitle"`
	PhilgepsReferenceNumber string `json:"philgepsReferenceNumber"`
	ProductType             string `json:"productType"`
	RequestType             string `json:"requestType"`
	DateNeeded              string `json:"dateNeeded"`
	SpecialInstructions     string `json:"specialInstructions"`
	AssignedTo              string `json:"assignedTo"`
}

// UpdateRequestRequest is a partial update, absent keys stay untouched.
// completedAt and canceledAt are not accepted: the server stamps those at
// the status transition.
type UpdateRequestRequest struct {
	AssignedTo          *string `json:"assignedTo"`
	Status              *int    `json:"status"`
	CancellationReason  *string `json:"cancellationReason"`
	DateNeeded          *string `json:"dateNeeded"`
	SpecialInstructions *string `json:"specialInstructions"`
}

type MemberResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type MemberStatsResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	OpenTasks       int    `json:"openTasks"`
	ClosedTasks     int    `json:"closedTasks"`
	CompletionRate  int    `json:"completionRate"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

func toMemberStatsResponse(stats core.MemberStats) MemberStatsResponse {
	return MemberStatsResponse{
		ID:              stats.ID,
		Name:            stats.Name,
		OpenTasks:       stats.OpenTasks,
		ClosedTasks:     stats.ClosedTasks,
		CompletionRate:  stats.CompletionRate,
		ProfileImageURL: stats.ProfileImageURL,
	}
}
