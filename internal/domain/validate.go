package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rezkam/quadrant/internal/datetime"
)

// Validation messages shown to the user.
const (
	MsgTitleRequired         = "任务标题不能为空"
	MsgTitleTooLong          = "任务标题不能超过100个字符"
	MsgDescriptionTooLong    = "任务描述不能超过500个字符"
	MsgInvalidPriority       = "无效的优先级"
	MsgInvalidCategory       = "请选择有效的分类"
	MsgInvalidDueDate        = "截止日期格式无效"
	MsgDueDateInPast         = "截止日期不能早于今天"
	MsgInvalidDueTime        = "截止时间格式无效"
	MsgReminderIncomplete    = "请完整设置提醒日期和时间"
	MsgInvalidReminder       = "提醒时间格式无效"
	MsgReminderAfterDue      = "提醒时间不能晚于截止时间"
	MsgReminderInPast        = "提醒时间不能早于当前时间"
	MsgRecurrenceNeedsDue    = "重复任务需要设置截止日期"
	MsgInvalidRecurrenceType = "无效的重复类型"
	MsgInvalidInterval       = "重复间隔必须大于0"
	MsgInvalidWeekday        = "无效的重复星期"
	MsgWeekdaysRequired      = "请选择每周重复的日期"
	MsgInvalidEndDate        = "重复结束日期格式无效"
	MsgEndDateBeforeDue      = "重复结束日期不能早于截止日期"
)

// Validate returns human readable violations for a task as submitted by a
// form. An empty result means the task is acceptable. Validation never blocks
// the store; callers decide whether to gate on it.
func (t *Task) Validate(categories []Category, now time.Time) []string {
	var errs []string

	title := strings.TrimSpace(t.Title)
	if title == "" {
		errs = append(errs, MsgTitleRequired)
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		errs = append(errs, MsgTitleTooLong)
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		errs = append(errs, MsgDescriptionTooLong)
	}

	if t.Priority != "" {
		if _, err := NewPriority(string(t.Priority)); err != nil {
			errs = append(errs, MsgInvalidPriority)
		}
	}

	if len(categories) > 0 && FindCategory(categories, t.CategoryID) == nil {
		errs = append(errs, MsgInvalidCategory)
	}

	due, hasDue := t.validateDue(now, &errs)
	t.validateReminder(due, hasDue, now, &errs)
	t.validateRecurrence(hasDue, &errs)

	return errs
}

func (t *Task) validateDue(now time.Time, errs *[]string) (time.Time, bool) {
	if t.DueDate == "" {
		if t.DueDateTime != "" {
			return datetime.ParseInstant(t.DueDateTime)
		}
		return time.Time{}, false
	}

	day, ok := datetime.ParseDate(t.DueDate)
	if !ok {
		*errs = append(*errs, MsgInvalidDueDate)
		return time.Time{}, false
	}
	if !t.Completed && day.Before(datetime.StartOfDayOf(now)) {
		*errs = append(*errs, MsgDueDateInPast)
	}

	if t.DueTime != "" && !datetime.ValidClock(t.DueTime) {
		*errs = append(*errs, MsgInvalidDueTime)
		return time.Time{}, false
	}
	return datetime.CombineOr(t.DueDate, t.DueTime, datetime.EndOfDay)
}

func (t *Task) validateReminder(due time.Time, hasDue bool, now time.Time, errs *[]string) {
	if !t.ReminderEnabled {
		return
	}
	if t.ReminderDate == "" || t.ReminderTime == "" {
		if t.ReminderDateTime == "" {
			*errs = append(*errs, MsgReminderIncomplete)
			return
		}
	}

	at, ok := t.ReminderInstant()
	if !ok {
		*errs = append(*errs, MsgInvalidReminder)
		return
	}
	if hasDue && at.After(due) {
		*errs = append(*errs, MsgReminderAfterDue)
	}
	if !t.Completed && (t.ReminderStatus == "" || t.ReminderStatus == ReminderPending) && at.Before(now) {
		*errs = append(*errs, MsgReminderInPast)
	}
}

func (t *Task) validateRecurrence(hasDue bool, errs *[]string) {
	if !t.RecurrenceEnabled {
		return
	}
	if !hasDue {
		*errs = append(*errs, MsgRecurrenceNeedsDue)
	}

	rt, err := NewRecurrenceType(string(t.RecurrenceType))
	if err != nil || rt == RecurrenceNone {
		*errs = append(*errs, MsgInvalidRecurrenceType)
	}
	if t.RecurrenceInterval < 1 {
		*errs = append(*errs, MsgInvalidInterval)
	}

	for _, d := range t.RecurrenceWeekdays {
		if d < 0 || d > 6 {
			*errs = append(*errs, MsgInvalidWeekday)
			break
		}
	}
	if rt.UsesWeekdays() && len(t.RecurrenceWeekdays) == 0 && t.DueDate == "" {
		*errs = append(*errs, MsgWeekdaysRequired)
	}

	end := strings.TrimSpace(t.RecurrenceEndDate)
	if end == "" {
		return
	}
	if !datetime.ValidDate(end) {
		*errs = append(*errs, MsgInvalidEndDate)
		return
	}
	if t.DueDate != "" && datetime.ValidDate(t.DueDate) && end < t.DueDate {
		*errs = append(*errs, MsgEndDateBeforeDue)
	}
}
