package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReminderService_EnableIsIdempotent(t *testing.T) {
	sched := newFakeScheduler()
	svc := NewReminderService(sched, []string{"08:00", "12:00", "18:00"})
	notifier := &fakeNotifier{}

	reply := svc.Enable(5, notifier)
	require.Contains(t, reply.Text, "08:00, 12:00, 18:00")
	reply = svc.Enable(5, notifier)
	require.Contains(t, reply.Text, "08:00")

	require.Equal(t, []string{"08:00", "12:00", "18:00"}, sched.jobs[5])
	require.Equal(t, []int64{5, 5}, sched.unscheduled)

	sched.run[5]()
	require.Equal(t, []string{msgReminder}, notifier.sent)

	reply = svc.Disable(5)
	require.Equal(t, msgRemindersOff, reply.Text)
	require.Empty(t, sched.jobs[5])
}

func TestReminderService_ScheduleFailure(t *testing.T) {
	sched := newFakeScheduler()
	sched.err = errors.New("bad time")
	svc := NewReminderService(sched, []string{"99:00"})

	reply := svc.Enable(5, &fakeNotifier{})
	require.Equal(t, msgRemindersFailure, reply.Text)
}
