package grpccluster

import (
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/cluster"
	"github.com/Sunil-Saini123/DS-Project-EXAM-PROCTORING/internal/model"
)

// Fully-qualified service names on the wire.
const (
	consistencyService = "exam.cluster.v1.ConsistencyService"
	mutexService       = "exam.cluster.v1.MutualExclusionService"
	balancerService    = "exam.cluster.v1.LoadBalancer"
)

type readRecordRequest struct {
	RollNo string       `json:"roll_no"`
	Role   cluster.Role `json:"role"`
}

type readRecordResponse struct {
	Record model.StudentRecord `json:"record"`
}

type writeRecordRequest struct {
	RollNo string              `json:"roll_no"`
	Record model.StudentRecord `json:"record"`
	Role   cluster.Role        `json:"role"`
}

type writeRecordResponse struct{}

type readAllRequest struct {
	Role cluster.Role `json:"role"`
}

type readAllResponse struct {
	Records []model.StudentRecord `json:"records"`
}

type criticalSectionRequest struct {
	Key   string `json:"key"`
	Token int64  `json:"token"`
}

type criticalSectionResponse struct {
	Granted bool `json:"granted"`
}

type routeRequest struct {
	Submission model.Submission `json:"submission"`
	Load       int              `json:"load"`
}

type routeResponse struct {
	Result model.RouteResult `json:"result"`
}
