package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"

	"github.com/google/uuid"
)

// In-memory repository fakes. All of them are safe for concurrent use since
// the audit and notification writes run on detached goroutines.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user

	return &clone, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByResetTokenHash(_ context.Context, hash string, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ResetPasswordToken == hash && user.ResetPasswordExpires != nil && user.ResetPasswordExpires.After(now) {
			clone := *user

			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context, params repository.UserListParams) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.User
	for _, user := range r.users {
		if params.Search == "" || strings.Contains(user.Username, params.Search) || strings.Contains(user.Email, params.Search) {
			clone := *user
			matched = append(matched, &clone)
		}
	}

	return matched, int64(len(matched)), nil
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone

	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)

	return nil
}

type memRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*entity.RefreshToken

	// duplicateNext forces Create to report a uniqueness violation for the
	// next n calls, regardless of the token value.
	duplicateNext int
}

func newMemRefreshTokenRepo() *memRefreshTokenRepo {
	return &memRefreshTokenRepo{tokens: make(map[string]*entity.RefreshToken)}
}

func (r *memRefreshTokenRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.duplicateNext > 0 {
		r.duplicateNext--

		return repository.ErrRefreshTokenDuplicate
	}
	if _, exists := r.tokens[token.Token]; exists {
		return repository.ErrRefreshTokenDuplicate
	}

	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	clone := *token
	r.tokens[token.Token] = &clone

	return nil
}

func (r *memRefreshTokenRepo) FindActive(_ context.Context, token string) (*entity.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.tokens[token]
	if !ok || !record.Active(time.Now()) {
		return nil, repository.ErrRefreshTokenInvalid
	}
	clone := *record

	return &clone, nil
}

func (r *memRefreshTokenRepo) Revoke(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record, ok := r.tokens[token]; ok {
		record.IsRevoked = true
	}

	return nil
}

func (r *memRefreshTokenRepo) RevokeAllForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.tokens {
		if record.UserID == userID {
			record.IsRevoked = true
		}
	}

	return nil
}

func (r *memRefreshTokenRepo) RevokeAllForUserExcept(_ context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.tokens {
		if record.UserID == userID && record.Token != token {
			record.IsRevoked = true
		}
	}

	return nil
}

func (r *memRefreshTokenRepo) activeCount(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, record := range r.tokens {
		if record.UserID == userID && record.Active(time.Now()) {
			count++
		}
	}

	return count
}

type memActivityRepo struct {
	mu         sync.Mutex
	activities []*entity.Activity
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{}
}

func (r *memActivityRepo) Create(_ context.Context, activity *entity.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity.ID = uuid.New()
	activity.CreatedAt = time.Now()
	clone := *activity
	r.activities = append(r.activities, &clone)

	return nil
}

func (r *memActivityRepo) ListByUser(_ context.Context, userID uuid.UUID, _ repository.ActivityListParams) ([]*entity.Activity, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Activity
	for _, activity := range r.activities {
		if activity.UserID == userID {
			clone := *activity
			matched = append(matched, &clone)
		}
	}

	return matched, int64(len(matched)), nil
}

func (r *memActivityRepo) actions(userID uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var actions []string
	for _, activity := range r.activities {
		if activity.UserID == userID {
			actions = append(actions, activity.Action)
		}
	}

	return actions
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*entity.Task

	// categoryRepo, when set, resolves category ownership for the grouped
	// per-category counts.
	categoryRepo *memCategoryRepo
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[uuid.UUID]*entity.Task)}
}

func (r *memTaskRepo) Create(_ context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = uuid.New()
	task.CreatedAt = time.Now()
	clone := *task
	r.tasks[task.ID] = &clone

	return nil
}

func (r *memTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	clone := *task

	return &clone, nil
}

func (r *memTaskRepo) FindByIDFull(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	return r.FindByID(ctx, id)
}

func (r *memTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]*entity.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Task
	for _, task := range r.tasks {
		if filter.VisibleToID != nil {
			visible := task.CreatedByID == *filter.VisibleToID ||
				(task.AssignedToID != nil && *task.AssignedToID == *filter.VisibleToID)
			if !visible {
				continue
			}
		}
		if filter.Status != "" && task.Status != entity.TaskStatus(filter.Status) {
			continue
		}
		clone := *task
		matched = append(matched, &clone)
	}

	return matched, int64(len(matched)), nil
}

func (r *memTaskRepo) Update(_ context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[task.ID]; !ok {
		return repository.ErrTaskNotFound
	}
	clone := *task
	r.tasks[task.ID] = &clone

	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(r.tasks, id)

	return nil
}

func (r *memTaskRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, task := range r.tasks {
		if task.CategoryID != nil && *task.CategoryID == categoryID {
			count++
		}
	}

	return count, nil
}

func (r *memTaskRepo) CountByCategoryAndStatus(_ context.Context, ownerID uuid.UUID) ([]repository.CategoryStatusCount, error) {
	owned := make(map[uuid.UUID]bool)
	if r.categoryRepo != nil {
		owned = r.categoryRepo.ownedIDs(ownerID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	type key struct {
		categoryID uuid.UUID
		status     entity.TaskStatus
	}
	tally := make(map[key]int64)
	for _, task := range r.tasks {
		if task.CategoryID == nil || !owned[*task.CategoryID] {
			continue
		}
		tally[key{*task.CategoryID, task.Status}]++
	}

	counts := make([]repository.CategoryStatusCount, 0, len(tally))
	for k, count := range tally {
		counts = append(counts, repository.CategoryStatusCount{
			CategoryID: k.categoryID,
			Status:     string(k.status),
			Count:      count,
		})
	}

	return counts, nil
}

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[uuid.UUID]*entity.Category)}
}

func (r *memCategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	category.ID = uuid.New()
	clone := *category
	r.categories[category.ID] = &clone

	return nil
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	category, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	clone := *category

	return &clone, nil
}

func (r *memCategoryRepo) FindByNameAndUser(_ context.Context, name string, userID uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, category := range r.categories {
		if category.Name == name && category.UserID == userID {
			clone := *category

			return &clone, nil
		}
	}

	return nil, repository.ErrCategoryNotFound
}

func (r *memCategoryRepo) ListByUser(_ context.Context, userID uuid.UUID, filter repository.CategoryFilter) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Category
	for _, category := range r.categories {
		if category.UserID != userID {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(category.Name), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *category
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		var less bool
		if filter.SortBy == "createdAt" {
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		} else {
			less = matched[i].Name < matched[j].Name
		}
		if filter.SortOrder == "desc" {
			return !less
		}

		return less
	})

	return matched, nil
}

func (r *memCategoryRepo) ownedIDs(userID uuid.UUID) map[uuid.UUID]bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	owned := make(map[uuid.UUID]bool)
	for id, category := range r.categories {
		if category.UserID == userID {
			owned[id] = true
		}
	}

	return owned
}

func (r *memCategoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[category.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	clone := *category
	r.categories[category.ID] = &clone

	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	delete(r.categories, id)

	return nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*entity.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: make(map[uuid.UUID]*entity.Comment)}
}

func (r *memCommentRepo) Create(_ context.Context, comment *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()
	clone := *comment
	r.comments[comment.ID] = &clone

	return nil
}

func (r *memCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	clone := *comment

	return &clone, nil
}

func (r *memCommentRepo) ListByTask(_ context.Context, taskID uuid.UUID) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Comment
	for _, comment := range r.comments {
		if comment.TaskID != taskID || comment.ParentCommentID != nil {
			continue
		}
		clone := *comment
		for _, reply := range r.comments {
			if reply.ParentCommentID != nil && *reply.ParentCommentID == comment.ID {
				replyClone := *reply
				clone.Replies = append(clone.Replies, &replyClone)
			}
		}
		matched = append(matched, &clone)
	}

	return matched, nil
}

func (r *memCommentRepo) Update(_ context.Context, comment *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[comment.ID]; !ok {
		return repository.ErrCommentNotFound
	}
	clone := *comment
	r.comments[comment.ID] = &clone

	return nil
}

func (r *memCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return repository.ErrCommentNotFound
	}
	delete(r.comments, id)
	for replyID, reply := range r.comments {
		if reply.ParentCommentID != nil && *reply.ParentCommentID == id {
			delete(r.comments, replyID)
		}
	}

	return nil
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(_ context.Context, notification *entity.Notification) error {
	return r.CreateBatch(context.Background(), []*entity.Notification{notification})
}

func (r *memNotificationRepo) CreateBatch(_ context.Context, notifications []*entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, notification := range notifications {
		notification.ID = uuid.New()
		notification.CreatedAt = time.Now()
		clone := *notification
		r.notifications = append(r.notifications, &clone)
	}

	return nil
}

func (r *memNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, notification := range r.notifications {
		if notification.ID == id {
			clone := *notification

			return &clone, nil
		}
	}

	return nil, repository.ErrNotificationNotFound
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, params repository.NotificationListParams) ([]*entity.Notification, int64, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Notification
	var unread int64
	for _, notification := range r.notifications {
		if notification.UserID != userID {
			continue
		}
		if !notification.IsRead {
			unread++
		}
		if params.IsRead != nil && notification.IsRead != *params.IsRead {
			continue
		}
		clone := *notification
		matched = append(matched, &clone)
	}

	return matched, int64(len(matched)), unread, nil
}

func (r *memNotificationRepo) SetRead(_ context.Context, id uuid.UUID, isRead bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, notification := range r.notifications {
		if notification.ID == id {
			notification.IsRead = isRead

			return nil
		}
	}

	return repository.ErrNotificationNotFound
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, notification := range r.notifications {
		if notification.UserID == userID {
			notification.IsRead = true
		}
	}

	return nil
}

func (r *memNotificationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, notification := range r.notifications {
		if notification.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)

			return nil
		}
	}

	return repository.ErrNotificationNotFound
}

func (r *memNotificationRepo) forUser(userID uuid.UUID) []*entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*entity.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			clone := *notification
			matched = append(matched, &clone)
		}
	}

	return matched
}

// memTxManager runs the function against the same in-memory repositories,
// without any transactional semantics.
type memTxManager struct {
	factory *memRepoFactory
}

func (m *memTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

type memRepoFactory struct {
	userRepo         *memUserRepo
	refreshTokenRepo *memRefreshTokenRepo
	taskRepo         *memTaskRepo
	categoryRepo     *memCategoryRepo
	commentRepo      *memCommentRepo
	notificationRepo *memNotificationRepo
	activityRepo     *memActivityRepo
}

func (f *memRepoFactory) NewUserRepository() repository.UserRepository {
	return f.userRepo
}

func (f *memRepoFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.refreshTokenRepo
}

func (f *memRepoFactory) NewTaskRepository() repository.TaskRepository {
	return f.taskRepo
}

func (f *memRepoFactory) NewCategoryRepository() repository.CategoryRepository {
	return f.categoryRepo
}

func (f *memRepoFactory) NewCommentRepository() repository.CommentRepository {
	return f.commentRepo
}

func (f *memRepoFactory) NewNotificationRepository() repository.NotificationRepository {
	return f.notificationRepo
}

func (f *memRepoFactory) NewActivityRepository() repository.ActivityRepository {
	return f.activityRepo
}

// fakeHasher marks hashes with a prefix so tests can tell hash from plaintext.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// fakeTokenService mints deterministic tokens so tests can assert rotation.
type fakeTokenService struct {
	mu      sync.Mutex
	access  int
	refresh int
	reset   int
}

func (s *fakeTokenService) GenerateAccessToken(user *entity.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.access++

	return fmt.Sprintf("access-%s-%d", user.Email, s.access), nil
}

func (s *fakeTokenService) ValidateAccessToken(string) (*service.Claims, error) {
	panic("not used in service tests")
}

func (s *fakeTokenService) NewRefreshToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refresh++

	return fmt.Sprintf("refresh-%d", s.refresh), nil
}

func (s *fakeTokenService) RefreshTokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}

func (s *fakeTokenService) NewResetToken() (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset++
	plaintext := fmt.Sprintf("reset-%d", s.reset)

	return plaintext, s.HashResetToken(plaintext), nil
}

func (s *fakeTokenService) HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))

	return hex.EncodeToString(sum[:])
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
