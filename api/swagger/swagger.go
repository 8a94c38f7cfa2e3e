package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Attendance API",
        "description": "Session and attendance reconciliation service",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "Attendance recording and reconciliation"},
        {"name": "Sessions", "description": "Per-day session windows"},
        {"name": "Reports", "description": "Daily attendance reports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/v1/attendance": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record explicit attendance and derive absences",
                "responses": {
                    "200": {"description": "Attendance recorded"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/api/v1/attendance/list": {
            "post": {
                "tags": ["Attendance"],
                "summary": "List attendance by student or section day",
                "responses": {
                    "200": {"description": "Attendance rows"}
                }
            }
        },
        "/api/v1/attendance/correct": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Correct existing record statuses",
                "responses": {
                    "200": {"description": "Records updated"},
                    "404": {"description": "Record not found"}
                }
            }
        },
        "/api/v1/attendance/sweep": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Run one absence reconciliation pass",
                "responses": {
                    "200": {"description": "Sweep summary"}
                }
            }
        },
        "/api/v1/sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Open or close a session window",
                "responses": {
                    "200": {"description": "Session log"},
                    "404": {"description": "Section not found"}
                }
            }
        },
        "/api/v1/sessions/ensure": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Ensure system-authored logs for today",
                "responses": {
                    "200": {"description": "Sections and session logs"}
                }
            }
        },
        "/api/v1/reports/daily": {
            "post": {
                "tags": ["Reports"],
                "summary": "Aggregate attendance for one date",
                "responses": {
                    "200": {"description": "Daily report"},
                    "404": {"description": "No records for the date"}
                }
            }
        },
        "/api/v1/reports/daily/export": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a daily report as CSV or PDF",
                "responses": {
                    "200": {"description": "Rendered document"}
                }
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
