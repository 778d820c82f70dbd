package comment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ordertrack/internal/domain"
	apperrors "ordertrack/internal/errors"
	"ordertrack/internal/schedule/scheduletest"
)

type commitRecord struct {
	id   string
	text string
	at   time.Duration
}

type fakeRepository struct {
	clock    *scheduletest.Fake
	comments map[string]string
	commits  []commitRecord
}

func newFakeRepository(clock *scheduletest.Fake, comments map[string]string) *fakeRepository {
	return &fakeRepository{clock: clock, comments: comments}
}

func (r *fakeRepository) Get(id string) (domain.Order, error) {
	c, ok := r.comments[id]
	if !ok {
		return domain.Order{}, apperrors.NewNotFoundError("order with id " + id + " not found")
	}
	return domain.Order{ID: id, Comment: c}, nil
}

func (r *fakeRepository) UpdateComment(id, text string) (domain.Order, error) {
	if _, ok := r.comments[id]; !ok {
		return domain.Order{}, apperrors.NewNotFoundError("order with id " + id + " not found")
	}
	r.comments[id] = text
	r.commits = append(r.commits, commitRecord{id: id, text: text, at: r.clock.Now()})
	return domain.Order{ID: id, Comment: text}, nil
}

func setup(comments map[string]string) (*Editor, *fakeRepository, *scheduletest.Fake) {
	clock := scheduletest.New()
	repo := newFakeRepository(clock, comments)
	return NewEditor(repo, clock, DefaultConfig(), zap.NewNop()), repo, clock
}

func TestEditor_DebounceCoalescesEdits(t *testing.T) {
	editor, repo, clock := setup(map[string]string{"a": "start"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change("first"))
	clock.Advance(300 * time.Millisecond)
	require.NoError(t, editor.Change("second"))
	clock.Advance(300 * time.Millisecond)
	require.NoError(t, editor.Change("third"))

	clock.Advance(999 * time.Millisecond)
	assert.Empty(t, repo.commits)

	clock.Advance(1 * time.Millisecond)
	require.Len(t, repo.commits, 1)
	assert.Equal(t, "third", repo.commits[0].text)
	assert.Equal(t, 1600*time.Millisecond, repo.commits[0].at)

	clock.Advance(5 * time.Second)
	assert.Len(t, repo.commits, 1)
	assert.True(t, editor.IsEditing())
}

func TestEditor_BeginSeedsBufferFromStoredComment(t *testing.T) {
	editor, _, _ := setup(map[string]string{"a": "3. call before noon"})

	require.NoError(t, editor.Begin("a"))

	state := editor.State()
	assert.Equal(t, Editing, state.Mode)
	assert.Equal(t, "a", state.OrderID)
	assert.Equal(t, "3. call before noon", state.Buffer)
	require.NotNil(t, state.Priority)
	assert.Equal(t, 3, *state.Priority)
	assert.Equal(t, "call before noon", state.Remainder)
}

func TestEditor_BeginUnknownOrder(t *testing.T) {
	editor, _, _ := setup(map[string]string{})

	err := editor.Begin("missing")
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.False(t, editor.IsEditing())
}

func TestEditor_SingleRowInEditMode(t *testing.T) {
	editor, repo, clock := setup(map[string]string{"a": "", "b": "kept"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change("typed on a"))
	require.NoError(t, editor.Begin("b"))

	assert.Equal(t, "b", editor.EditingID())
	require.Len(t, repo.commits, 1)
	assert.Equal(t, commitRecord{id: "a", text: "typed on a", at: 0}, repo.commits[0])

	clock.Advance(2 * time.Second)
	assert.Len(t, repo.commits, 1)
	assert.Equal(t, "kept", repo.comments["b"])
}

func TestEditor_SaveCommitsImmediately(t *testing.T) {
	editor, repo, clock := setup(map[string]string{"a": "old", "b": "other"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change("new"))

	order, err := editor.Save()
	require.NoError(t, err)
	assert.Equal(t, "new", order.Comment)
	assert.False(t, editor.IsEditing())

	clock.Advance(2 * time.Second)
	assert.Len(t, repo.commits, 1)
	assert.Equal(t, "other", repo.comments["b"])
}

func TestEditor_BlurCommitsImmediately(t *testing.T) {
	editor, repo, _ := setup(map[string]string{"a": "old"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change("blurred"))

	_, err := editor.Blur()
	require.NoError(t, err)
	assert.Equal(t, "blurred", repo.comments["a"])
	assert.Equal(t, Viewing, editor.State().Mode)
	assert.Empty(t, editor.State().Pending)
}

func TestEditor_EmptyBufferIsCommitted(t *testing.T) {
	editor, repo, _ := setup(map[string]string{"a": "something"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change(""))
	_, err := editor.Save()

	require.NoError(t, err)
	require.Len(t, repo.commits, 1)
	assert.Equal(t, "", repo.comments["a"])
}

func TestEditor_CancelDiscardsBuffer(t *testing.T) {
	editor, repo, clock := setup(map[string]string{"a": "original"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change("discard me"))
	editor.Cancel()

	clock.Advance(2 * time.Second)
	assert.Empty(t, repo.commits)
	assert.Equal(t, "original", repo.comments["a"])
	assert.False(t, editor.IsEditing())

	editor.Cancel()
}

func TestEditor_OperationsRequireEditMode(t *testing.T) {
	editor, _, _ := setup(map[string]string{"a": ""})

	_, ok := apperrors.IsConflictError(editor.Change("x"))
	assert.True(t, ok)

	_, ok = apperrors.IsConflictError(editor.TogglePriority(2))
	assert.True(t, ok)

	_, err := editor.Save()
	_, ok = apperrors.IsConflictError(err)
	assert.True(t, ok)

	_, err = editor.Blur()
	_, ok = apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestEditor_PriorityCommitsFasterThanText(t *testing.T) {
	editor, repo, clock := setup(map[string]string{"a": "deliver"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change("deliver today"))
	clock.Advance(100 * time.Millisecond)
	require.NoError(t, editor.TogglePriority(2))

	assert.Equal(t, "2. deliver today", editor.State().Buffer)

	clock.Advance(149 * time.Millisecond)
	assert.Empty(t, repo.commits)

	clock.Advance(1 * time.Millisecond)
	require.Len(t, repo.commits, 1)
	assert.Equal(t, "2. deliver today", repo.commits[0].text)
	assert.Equal(t, 250*time.Millisecond, repo.commits[0].at)

	clock.Advance(2 * time.Second)
	assert.Len(t, repo.commits, 1)
}

func TestEditor_TogglePriorityTwiceRestoresText(t *testing.T) {
	editor, _, _ := setup(map[string]string{"a": "fragile"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.TogglePriority(5))
	require.NoError(t, editor.TogglePriority(5))

	assert.Equal(t, "fragile", editor.State().Buffer)
}

func TestEditor_TogglePriorityOutOfRange(t *testing.T) {
	editor, _, _ := setup(map[string]string{"a": ""})
	require.NoError(t, editor.Begin("a"))

	for _, p := range []int{0, 8, -1} {
		_, ok := apperrors.IsValidationError(editor.TogglePriority(p))
		assert.True(t, ok, "priority %d", p)
	}
}

func TestEditor_SetPriorityWhileViewing(t *testing.T) {
	editor, repo, _ := setup(map[string]string{"a": "4. old note", "b": ""})

	order, err := editor.SetPriority("a", 1)
	require.NoError(t, err)
	assert.Equal(t, "1. old note", order.Comment)
	assert.Len(t, repo.commits, 1)

	order, err = editor.SetPriority("a", 1)
	require.NoError(t, err)
	assert.Equal(t, "old note", order.Comment)

	require.NoError(t, editor.Begin("b"))
	_, err = editor.SetPriority("b", 3)
	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)

	_, err = editor.SetPriority("missing", 3)
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestEditor_CloseCancelsPendingTimers(t *testing.T) {
	editor, repo, clock := setup(map[string]string{"a": "before"})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change("never saved"))
	assert.Equal(t, 1, clock.Pending())

	editor.Close()

	assert.Equal(t, 0, clock.Pending())
	clock.Advance(5 * time.Second)
	assert.Empty(t, repo.commits)
	assert.False(t, editor.IsEditing())
}

func TestEditor_DebouncedCommitForDeletedOrder(t *testing.T) {
	editor, repo, clock := setup(map[string]string{"a": ""})

	require.NoError(t, editor.Begin("a"))
	require.NoError(t, editor.Change("late"))
	delete(repo.comments, "a")

	clock.Advance(time.Second)
	assert.Empty(t, repo.commits)
	assert.Empty(t, editor.State().Pending)
}
