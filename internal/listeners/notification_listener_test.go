package listeners

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/events"
	"gearguard/pkg/constants"
	"gearguard/pkg/eventbus"
	"gearguard/pkg/websocket"
)

type sentMessage struct {
	userID      uint64
	messageType string
	payload     websocket.MaintenanceUpdatePayload
}

type fakeNotifier struct {
	mu        sync.Mutex
	broadcast []sentMessage
	direct    []sentMessage
	directErr error
}

func (n *fakeNotifier) SendNotification(userID uint64, payload interface{}, messageType string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.direct = append(n.direct, sentMessage{userID: userID, messageType: messageType, payload: payload.(websocket.MaintenanceUpdatePayload)})
	return n.directErr
}

func (n *fakeNotifier) Broadcast(payload interface{}, messageType string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.broadcast = append(n.broadcast, sentMessage{messageType: messageType, payload: payload.(websocket.MaintenanceUpdatePayload)})
	return nil
}

func publishAndWait(t *testing.T, notifier *fakeNotifier, event events.MaintenanceRequestChangedEvent) {
	t.Helper()
	bus := eventbus.New(zap.NewNop())
	NewNotificationListener(notifier, zap.NewNop()).Register(bus)
	NewAuditListener(zap.NewNop()).Register(bus)
	bus.Publish(context.Background(), event)
	bus.Wait()
}

func TestNotificationListener_StatusChangeIsBroadcast(t *testing.T) {
	notifier := &fakeNotifier{}
	publishAndWait(t, notifier, events.MaintenanceRequestChangedEvent{
		RequestID:   3,
		Action:      events.ActionStatusChanged,
		OldStatus:   constants.StatusNew,
		NewStatus:   constants.StatusInProgress,
		ActorUserID: 5,
	})

	require.Len(t, notifier.broadcast, 1)
	msg := notifier.broadcast[0]
	assert.Equal(t, constants.WSMessageMaintenanceUpdated, msg.messageType)
	assert.Equal(t, uint64(3), msg.payload.RequestID)
	assert.Equal(t, constants.StatusInProgress, msg.payload.Status)
	assert.Equal(t, constants.StatusNew, msg.payload.OldStatus)
	assert.Empty(t, notifier.direct)
}

func TestNotificationListener_AssigneeGetsPersonalMessage(t *testing.T) {
	assignee := uint64(8)
	notifier := &fakeNotifier{directErr: errors.New("пользователь не в сети")}
	publishAndWait(t, notifier, events.MaintenanceRequestChangedEvent{
		RequestID:        3,
		Action:           events.ActionAssigned,
		NewStatus:        constants.StatusNew,
		AssignedToUserID: &assignee,
		ActorUserID:      1,
	})

	assert.Len(t, notifier.broadcast, 1)
	require.Len(t, notifier.direct, 1)
	assert.Equal(t, assignee, notifier.direct[0].userID)
	assert.Equal(t, constants.WSMessageMaintenanceAssigned, notifier.direct[0].messageType)
}

func TestNotificationListener_SelfAssignmentIsNotEchoed(t *testing.T) {
	self := uint64(8)
	notifier := &fakeNotifier{}
	publishAndWait(t, notifier, events.MaintenanceRequestChangedEvent{
		RequestID:        3,
		Action:           events.ActionAssigned,
		NewStatus:        constants.StatusNew,
		AssignedToUserID: &self,
		ActorUserID:      self,
	})

	assert.Len(t, notifier.broadcast, 1)
	assert.Empty(t, notifier.direct)
}
