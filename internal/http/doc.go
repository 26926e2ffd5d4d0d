// Package http provides HTTP handlers and middleware for the planner API.
//
// The router exposes the following endpoints:
//   - GET /planning?start=YYYY-MM-DD&end=YYYY-MM-DD: resolves every occurrence
//     in the requested window with exceptions applied.
//   - GET /planning/notifications: resolves the two week notification window
//     anchored on the Monday of the current week.
//   - GET /planning/conflicts?start=YYYY-MM-DD&end=YYYY-MM-DD: reports doctors
//     scheduled during a declared absence or double booked in the window.
//   - GET /template, PUT /template: read and synchronize the weekly template,
//     exchanging the `templateSlotDTO` payload defined in dto.go.
//   - GET /attendance, PUT /attendance/{occurrenceID}/{doctorID},
//     GET /attendance/pending/{doctorID}: attendance decisions for derived
//     occurrences and the per-doctor pending list.
//   - GET /rcps, POST /rcps, PUT /rcps/{id}, DELETE /rcps/{id}: meeting
//     definition management exchanging the `rcpDefinitionDTO` payload.
//   - GET /exceptions, POST /exceptions,
//     DELETE /exceptions/{templateID}/{date}: per-occurrence overrides.
//   - GET /doctors, GET /doctors/{id}: physician directory.
//   - GET /unavailabilities, POST /unavailabilities,
//     DELETE /unavailabilities/{id}: doctor absence periods.
//
// Request/response DTOs live in dto.go so handlers and tests share the same
// ground truth.
package http
