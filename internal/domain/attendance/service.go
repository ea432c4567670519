package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pointage/internal/auth"
	"pointage/internal/domain/employees"
	"pointage/internal/domain/face"
	"pointage/internal/domain/geo"
	"pointage/internal/domain/notifications"
	"pointage/internal/platform/config"
)

// Directory is the read-only view of the employee store the pipeline needs.
type Directory interface {
	FindByID(ctx context.Context, id string) (*employees.Employee, error)
	List(ctx context.Context) ([]employees.Employee, error)
}

// Notifier raises side-channel alerts. Implementations must be
// fire-and-forget: a failing notifier never changes an attendance outcome.
type Notifier interface {
	Notify(ctx context.Context, employeeID, ntype, message string)
}

type Service struct {
	store     StoreAPI
	directory Directory
	notifier  Notifier
	qr        *QRCodec

	fence             geo.Fence
	faceThreshold     float64
	lateHour          int
	allowMultipleOpen bool

	now func() time.Time
}

func NewService(store StoreAPI, directory Directory, notifier Notifier, qr *QRCodec, cfg config.Config) *Service {
	return &Service{
		store:     store,
		directory: directory,
		notifier:  notifier,
		qr:        qr,
		fence: geo.Fence{
			Center:   geo.Point{Lat: cfg.GeofenceLat, Lng: cfg.GeofenceLng},
			RadiusM:  cfg.GeofenceRadiusM,
			Geodesic: cfg.GeofenceGeodesic,
		},
		faceThreshold:     cfg.FaceMatchThreshold,
		lateHour:          cfg.LateHour,
		allowMultipleOpen: cfg.AllowMultipleOpen,
		now:               time.Now,
	}
}

// RecordManual accepts a directly supplied identity and timestamp. The actor
// must be the employee in question or an admin.
func (s *Service) RecordManual(ctx context.Context, actor auth.Principal, employeeID string, at time.Time, loc geo.Point) (*Record, error) {
	return s.record(ctx, actor, employeeID, at, loc, MethodManual)
}

// RecordQR resolves the employee from a signed badge token, then proceeds as
// a manual entry for the decoded identity.
func (s *Service) RecordQR(ctx context.Context, actor auth.Principal, qrData string, at time.Time, loc geo.Point) (*Record, error) {
	employeeID, rej := s.qr.Verify(qrData, s.now())
	if rej != nil {
		if rej.Code == CodeQRExpired && employeeID != "" {
			s.notifier.Notify(ctx, employeeID, notifications.TypeExpiredQR, "An expired QR code was presented for your badge.")
		}
		return nil, rej
	}
	return s.record(ctx, actor, employeeID, at, loc, MethodQR)
}

// RecordFacial verifies a probe descriptor against the employee's enrolled
// descriptor before recording the entry.
func (s *Service) RecordFacial(ctx context.Context, actor auth.Principal, employeeID string, probe []float64, at time.Time, loc geo.Point) (*Record, error) {
	if !actor.CanActFor(employeeID) {
		return nil, ErrNotAuthorized
	}
	emp, err := s.lookupEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(emp.FaceDescriptor) == 0 {
		return nil, reject(CodeFaceNotEnrolled, "no face descriptor enrolled for this employee")
	}
	if !face.Match(face.Distance(probe, emp.FaceDescriptor), s.faceThreshold) {
		return nil, reject(CodeFaceNoMatch, "face not recognized")
	}
	return s.record(ctx, actor, employeeID, at, loc, MethodFacial)
}

// RecordExit stamps the exit onto the newest open session in the actor's
// correction window.
func (s *Service) RecordExit(ctx context.Context, actor auth.Principal, employeeID string, at time.Time, loc geo.Point) (*Record, error) {
	if !actor.CanActFor(employeeID) {
		return nil, ErrNotAuthorized
	}
	now := s.now()
	if rej := CheckAdmissible(at, now, actor.Role); rej != nil {
		return nil, rej
	}

	rec, err := s.store.CloseEntry(ctx, employeeID, at, loc, sessionWindowStart(now, actor.Role))
	if err == ErrExitBeforeEntry {
		return nil, reject(CodeExitBeforeEntry, "exit time must be after the entry time")
	}
	return rec, err
}

func (s *Service) ListForEmployee(ctx context.Context, actor auth.Principal, employeeID string, limit int) ([]Record, error) {
	if !actor.CanActFor(employeeID) {
		return nil, ErrNotAuthorized
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.store.ListForEmployee(ctx, employeeID, limit)
}

// lookupEmployee resolves the directory's miss signals, both the sentinel
// and a nil employee, into ErrEmployeeNotFound.
func (s *Service) lookupEmployee(ctx context.Context, employeeID string) (*employees.Employee, error) {
	emp, err := s.directory.FindByID(ctx, employeeID)
	if errors.Is(err, employees.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Service) record(ctx context.Context, actor auth.Principal, employeeID string, at time.Time, loc geo.Point, method string) (*Record, error) {
	if !actor.CanActFor(employeeID) {
		return nil, ErrNotAuthorized
	}

	if _, err := s.lookupEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	now := s.now()
	if rej := CheckAdmissible(at, now, actor.Role); rej != nil {
		return nil, rej
	}

	if !s.fence.Contains(loc) {
		s.notifier.Notify(ctx, employeeID, notifications.TypeLocationIssue,
			"A check-in was attempted outside the allowed work area.")
		return nil, reject(CodeOutsideGeofence, "location is outside the allowed work area")
	}

	if !s.allowMultipleOpen {
		open, err := s.store.HasOpenSession(ctx, employeeID, sessionWindowStart(now, actor.Role))
		if err != nil {
			return nil, err
		}
		if open {
			return nil, reject(CodeOpenSession, "an open attendance session already exists")
		}
	}

	rec, err := s.store.CreateEntry(ctx, employeeID, at, loc, method)
	if err != nil {
		return nil, err
	}

	if at.Hour() >= s.lateHour {
		s.notifier.Notify(ctx, employeeID, notifications.TypeLateArrival,
			fmt.Sprintf("Entry recorded at %s, after the expected start of day.", at.Format("15:04")))
	}
	return rec, nil
}
