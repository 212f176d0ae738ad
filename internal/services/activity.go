package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/diewo77/hotel-backoffice/i18n"
	"github.com/diewo77/hotel-backoffice/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RequestInfo identifies who triggered an operation.
type RequestInfo struct {
	User      string
	IP        string
	UserAgent string
}

type requestInfoKey struct{}

func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func RequestInfoFrom(ctx context.Context) RequestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info
}

// Recorder persists or forwards activity entries.
type Recorder interface {
	Record(ctx context.Context, entry *models.ActivityLog) error
}

// DBRecorder writes entries straight to the activity_logs table.
type DBRecorder struct {
	db *gorm.DB
}

func NewDBRecorder(db *gorm.DB) *DBRecorder {
	return &DBRecorder{db: db}
}

func (r *DBRecorder) Record(ctx context.Context, entry *models.ActivityLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ActivityService records and queries the back-office journal.
// A nil *ActivityService records nothing.
type ActivityService struct {
	db  *gorm.DB
	rec Recorder
}

func NewActivityService(db *gorm.DB, rec Recorder) *ActivityService {
	if rec == nil {
		rec = NewDBRecorder(db)
	}
	return &ActivityService{db: db, rec: rec}
}

// Log records entry, completing it from the request info in ctx.
// Failures are logged and never propagated to the caller.
func (s *ActivityService) Log(ctx context.Context, entry *models.ActivityLog) {
	if s == nil {
		return
	}
	info := RequestInfoFrom(ctx)
	if entry.User == "" {
		entry.User = info.User
	}
	if entry.IPAddress == "" {
		entry.IPAddress = info.IP
	}
	if entry.UserAgent == "" {
		entry.UserAgent = info.UserAgent
	}
	if entry.Severity == "" {
		entry.Severity = models.SeverityInfo
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := s.rec.Record(context.WithoutCancel(ctx), entry); err != nil {
		log.Printf("activity: record %s/%s failed: %v", entry.Module, entry.Action, err)
	}
}

func (s *ActivityService) Created(ctx context.Context, module models.Module, objType string, id uint, repr string, obj any) {
	s.Log(ctx, &models.ActivityLog{
		EventType:  models.EventCreate,
		Module:     module,
		Action:     "Création " + objType,
		ObjectType: objType,
		ObjectID:   id,
		ObjectRepr: truncate(repr, 200),
		NewValues:  toJSON(snapshot(obj)),
	})
}

// Updated records only the fields that differ between before and after.
// Nothing is recorded when they are equal.
func (s *ActivityService) Updated(ctx context.Context, module models.Module, objType string, id uint, repr string, before, after any) {
	oldVals, newVals := Diff(snapshot(before), snapshot(after))
	if len(newVals) == 0 {
		return
	}
	fields := make([]string, 0, len(newVals))
	for k := range newVals {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	s.Log(ctx, &models.ActivityLog{
		EventType:  models.EventUpdate,
		Module:     module,
		Action:     "Modification " + objType,
		Details:    "Champs modifiés: " + strings.Join(fields, ", "),
		ObjectType: objType,
		ObjectID:   id,
		ObjectRepr: truncate(repr, 200),
		OldValues:  toJSON(oldVals),
		NewValues:  toJSON(newVals),
	})
}

func (s *ActivityService) Deleted(ctx context.Context, module models.Module, objType string, id uint, repr string, obj any) {
	s.Log(ctx, &models.ActivityLog{
		EventType:  models.EventDelete,
		Module:     module,
		Action:     "Suppression " + objType,
		Severity:   models.SeverityWarning,
		ObjectType: objType,
		ObjectID:   id,
		ObjectRepr: truncate(repr, 200),
		OldValues:  toJSON(snapshot(obj)),
	})
}

// System records an event not tied to a request, such as a batch run.
func (s *ActivityService) System(ctx context.Context, module models.Module, action, details string, sev models.Severity) {
	s.Log(ctx, &models.ActivityLog{
		EventType: models.EventSystem,
		Module:    module,
		Action:    action,
		Details:   details,
		Severity:  sev,
	})
}

var snapshotSkip = map[string]bool{"created_at": true, "updated_at": true, "deleted_at": true}

// snapshot flattens obj to its scalar JSON fields.
func snapshot(obj any) map[string]any {
	if obj == nil {
		return nil
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if snapshotSkip[k] {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		out[k] = v
	}
	return out
}

// Diff returns the old and new values of every key that changed.
func Diff(before, after map[string]any) (oldVals, newVals map[string]any) {
	oldVals, newVals = map[string]any{}, map[string]any{}
	for k, nv := range after {
		ov, ok := before[k]
		if ok && reflect.DeepEqual(ov, nv) {
			continue
		}
		oldVals[k] = ov
		newVals[k] = nv
	}
	for k, ov := range before {
		if _, ok := after[k]; !ok {
			oldVals[k] = ov
			newVals[k] = nil
		}
	}
	return oldVals, newVals
}

func toJSON(v map[string]any) datatypes.JSON {
	if len(v) == 0 {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ActivityFilter narrows the journal listing. Zero values are ignored.
type ActivityFilter struct {
	EventType string
	Module    string
	User      string
	Severity  string
	DateFrom  *time.Time
	DateTo    *time.Time // inclusive day
	Search    string
	Limit     int
	Offset    int
}

func (s *ActivityService) query(ctx context.Context, f ActivityFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.ActivityLog{})
	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}
	if f.Module != "" {
		q = q.Where("module = ?", f.Module)
	}
	if f.User != "" {
		q = q.Where(&models.ActivityLog{User: f.User})
	}
	if f.Severity != "" {
		q = q.Where("severity = ?", f.Severity)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at < ?", f.DateTo.AddDate(0, 0, 1))
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(action) LIKE ? OR LOWER(details) LIKE ? OR LOWER(object_repr) LIKE ?", like, like, like)
	}
	return q
}

// List returns a page of entries, newest first, with the filtered total.
func (s *ActivityService) List(ctx context.Context, f ActivityFilter) ([]models.ActivityLog, int64, error) {
	var total int64
	if err := s.query(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count activity: %w", err)
	}
	q := paginate(s.query(ctx, f).Order("created_at desc, id desc"), f.Limit, f.Offset)
	var logs []models.ActivityLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("list activity: %w", err)
	}
	return logs, total, nil
}

// ExportRows returns the localized header and rows for CSV/XLSX exports.
func ExportRows(lang string, logs []models.ActivityLog) (header []string, rows [][]string) {
	header = []string{
		i18n.T(lang, "col_datetime"),
		i18n.T(lang, "col_user"),
		i18n.T(lang, "col_type"),
		i18n.T(lang, "col_module"),
		i18n.T(lang, "col_action"),
		i18n.T(lang, "col_details"),
		i18n.T(lang, "col_severity"),
	}
	rows = make([][]string, 0, len(logs))
	for _, l := range logs {
		user := l.User
		if user == "" {
			user = i18n.T(lang, "system_user")
		}
		rows = append(rows, []string{
			l.CreatedAt.Format("02/01/2006 15:04:05"),
			user,
			string(l.EventType),
			string(l.Module),
			l.Action,
			truncate(l.Details, 100),
			string(l.Severity),
		})
	}
	return header, rows
}

func WriteActivityCSV(w io.Writer, lang string, logs []models.ActivityLog) error {
	header, rows := ExportRows(lang, logs)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func WriteActivityXLSX(w io.Writer, lang string, logs []models.ActivityLog) error {
	header, rows := ExportRows(lang, logs)
	f := excelize.NewFile()
	defer f.Close()

	sheet := i18n.T(lang, "sheet_activity")
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}
	for c, h := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
