package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
)

// MockStore is the shared in-memory state behind the mock repositories.
// Rows are stored as private copies so snapshots stay valid.
type MockStore struct {
	mu   sync.Mutex
	txMu sync.Mutex
	seq  map[string]int64

	Users       map[int64]*models.User
	Categories  map[int64]*models.Category
	Tags        map[int64]*models.Tag
	ArticleTags map[int64]*models.ArticleTag
	Articles    map[int64]*models.Article
	Versions    map[int64][]*models.ArticleVersion
	Comments    map[int64]*models.Comment

	// Now is the clock used for timestamps
	Now func() time.Time
}

// NewMockStore creates an empty store
func NewMockStore() *MockStore {
	return &MockStore{
		seq:         make(map[string]int64),
		Users:       make(map[int64]*models.User),
		Categories:  make(map[int64]*models.Category),
		Tags:        make(map[int64]*models.Tag),
		ArticleTags: make(map[int64]*models.ArticleTag),
		Articles:    make(map[int64]*models.Article),
		Versions:    make(map[int64][]*models.ArticleVersion),
		Comments:    make(map[int64]*models.Comment),
		Now:         time.Now,
	}
}

func (s *MockStore) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

type storeSnapshot struct {
	seq         map[string]int64
	users       map[int64]*models.User
	categories  map[int64]*models.Category
	tags        map[int64]*models.Tag
	articleTags map[int64]*models.ArticleTag
	articles    map[int64]*models.Article
	versions    map[int64][]*models.ArticleVersion
	comments    map[int64]*models.Comment
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *MockStore) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	versions := make(map[int64][]*models.ArticleVersion, len(s.Versions))
	for k, v := range s.Versions {
		versions[k] = append([]*models.ArticleVersion(nil), v...)
	}
	return storeSnapshot{
		seq:         copyMap(s.seq),
		users:       copyMap(s.Users),
		categories:  copyMap(s.Categories),
		tags:        copyMap(s.Tags),
		articleTags: copyMap(s.ArticleTags),
		articles:    copyMap(s.Articles),
		versions:    versions,
		comments:    copyMap(s.Comments),
	}
}

func (s *MockStore) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = snap.seq
	s.Users = snap.users
	s.Categories = snap.categories
	s.Tags = snap.tags
	s.ArticleTags = snap.articleTags
	s.Articles = snap.articles
	s.Versions = snap.versions
	s.Comments = snap.comments
}

// MockRepositories bundles the mock repositories with their store
type MockRepositories struct {
	Store      *MockStore
	User       *MockUserRepository
	Category   *MockCategoryRepository
	Tag        *MockTagRepository
	ArticleTag *MockArticleTagRepository
	Article    *MockArticleRepository
	Version    *MockVersionRepository
	Comment    *MockCommentRepository
	Tx         *MockTransactor
}

// NewMockRepositories creates a full set of mock repositories over one store
func NewMockRepositories() *MockRepositories {
	store := NewMockStore()
	m := &MockRepositories{
		Store:      store,
		User:       &MockUserRepository{s: store},
		Category:   &MockCategoryRepository{s: store},
		Tag:        &MockTagRepository{s: store},
		ArticleTag: &MockArticleTagRepository{s: store},
		Article:    &MockArticleRepository{s: store},
		Version:    &MockVersionRepository{s: store},
		Comment:    &MockCommentRepository{s: store},
	}
	m.Tx = &MockTransactor{store: store}
	m.Tx.repos = m.bound()
	return m
}

func (m *MockRepositories) bound() *repository.Repositories {
	return &repository.Repositories{
		User:       m.User,
		Category:   m.Category,
		Tag:        m.Tag,
		ArticleTag: m.ArticleTag,
		Article:    m.Article,
		Version:    m.Version,
		Comment:    m.Comment,
	}
}

// Repositories returns the mocks as the service-facing aggregate
func (m *MockRepositories) Repositories() *repository.Repositories {
	repos := m.bound()
	repos.Tx = m.Tx
	return repos
}

// MockTransactor serializes transactions and rolls the store back when fn fails
type MockTransactor struct {
	store *MockStore
	repos *repository.Repositories
	Calls int
}

var _ repository.Transactor = (*MockTransactor)(nil)

func (t *MockTransactor) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	t.Calls++

	snap := t.store.snapshot()
	if err := fn(t.repos); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	s           *MockStore
	InsertError error
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.Users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("%w: users", repository.ErrDuplicate)
		}
	}
	user.ID = m.s.nextID("users")
	user.CreatedAt = m.s.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.s.Users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) EnsureWithID(ctx context.Context, user *models.User) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.Users {
		if u.ID == user.ID || u.Username == user.Username || u.Email == user.Email {
			return false, nil
		}
	}
	user.CreatedAt = m.s.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.s.Users[user.ID] = &stored
	if m.s.seq["users"] < user.ID {
		m.s.seq["users"] = user.ID
	}
	return true, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.Users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	users := make([]*models.User, 0, len(m.s.Users))
	for _, u := range m.s.Users {
		out := *u
		out.Password = ""
		users = append(users, &out)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.Users[id]
	return ok, nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	s           *MockStore
	InsertError error
}

var _ repository.CategoryRepository = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) nameTaken(name string, exceptID int64) bool {
	for _, c := range m.s.Categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.nameTaken(category.Name, 0) {
		return fmt.Errorf("%w: categories_name_key", repository.ErrDuplicate)
	}
	category.ID = m.s.nextID("categories")
	category.CreatedAt = m.s.Now()
	category.UpdatedAt = category.CreatedAt
	stored := *category
	m.s.Categories[category.ID] = &stored
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.Categories[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.Categories {
		if c.Name == name {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*models.Category, 0, len(m.s.Categories))
	for _, c := range m.s.Categories {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.Categories[category.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if m.nameTaken(category.Name, category.ID) {
		return fmt.Errorf("%w: categories_name_key", repository.ErrDuplicate)
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = m.s.Now()
	stored := *category
	m.s.Categories[category.ID] = &stored
	return nil
}

// Delete mirrors ON DELETE SET NULL on articles and versions
func (m *MockCategoryRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.Categories[id]; !ok {
		return false, nil
	}
	delete(m.s.Categories, id)
	for aid, a := range m.s.Articles {
		if a.CategoryID != nil && *a.CategoryID == id {
			cp := *a
			cp.CategoryID = nil
			m.s.Articles[aid] = &cp
		}
	}
	for aid, versions := range m.s.Versions {
		updated := make([]*models.ArticleVersion, len(versions))
		for i, v := range versions {
			if v.CategoryID != nil && *v.CategoryID == id {
				cp := *v
				cp.CategoryID = nil
				v = &cp
			}
			updated[i] = v
		}
		m.s.Versions[aid] = updated
	}
	return true, nil
}

func (m *MockCategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.Categories[id]
	return ok, nil
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	s           *MockStore
	InsertError error
}

var _ repository.TagRepository = (*MockTagRepository)(nil)

func (m *MockTagRepository) findByName(name string) *models.Tag {
	for _, t := range m.s.Tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.findByName(tag.Name) != nil {
		return fmt.Errorf("%w: tags_name_key", repository.ErrDuplicate)
	}
	tag.ID = m.s.nextID("tags")
	tag.CreatedAt = m.s.Now()
	tag.UpdatedAt = tag.CreatedAt
	stored := *tag
	m.s.Tags[tag.ID] = &stored
	return nil
}

func (m *MockTagRepository) UpsertByName(ctx context.Context, name string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if t := m.findByName(name); t != nil {
		return t.ID, nil
	}
	now := m.s.Now()
	t := &models.Tag{ID: m.s.nextID("tags"), Name: name, CreatedAt: now, UpdatedAt: now}
	m.s.Tags[t.ID] = t
	return t.ID, nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	t, ok := m.s.Tags[id]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (m *MockTagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*models.Tag, 0, len(m.s.Tags))
	for _, t := range m.s.Tags {
		tt := *t
		out = append(out, &tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.Tags[tag.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if other := m.findByName(tag.Name); other != nil && other.ID != tag.ID {
		return fmt.Errorf("%w: tags_name_key", repository.ErrDuplicate)
	}
	tag.CreatedAt = existing.CreatedAt
	tag.UpdatedAt = m.s.Now()
	stored := *tag
	m.s.Tags[tag.ID] = &stored
	return nil
}

// Delete cascades to article links
func (m *MockTagRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.Tags[id]; !ok {
		return false, nil
	}
	delete(m.s.Tags, id)
	for lid, l := range m.s.ArticleTags {
		if l.TagID == id {
			delete(m.s.ArticleTags, lid)
		}
	}
	return true, nil
}

func (m *MockTagRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.Tags[id]
	return ok, nil
}

// MockArticleTagRepository is a mock implementation of ArticleTagRepository
type MockArticleTagRepository struct {
	s *MockStore
}

var _ repository.ArticleTagRepository = (*MockArticleTagRepository)(nil)

func (m *MockArticleTagRepository) Create(ctx context.Context, link *models.ArticleTag) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, l := range m.s.ArticleTags {
		if l.ArticleID == link.ArticleID && l.TagID == link.TagID {
			return fmt.Errorf("%w: article_tags_articleId_tagId_key", repository.ErrDuplicate)
		}
	}
	link.ID = m.s.nextID("article_tags")
	link.CreatedAt = m.s.Now()
	stored := *link
	m.s.ArticleTags[link.ID] = &stored
	return nil
}

func (m *MockArticleTagRepository) GetByID(ctx context.Context, id int64) (*models.ArticleTag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	l, ok := m.s.ArticleTags[id]
	if !ok {
		return nil, nil
	}
	out := *l
	return &out, nil
}

func (m *MockArticleTagRepository) List(ctx context.Context, filter models.ArticleTagFilter) ([]*models.ArticleTag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*models.ArticleTag, 0)
	for _, l := range m.s.ArticleTags {
		if filter.ArticleID != nil && l.ArticleID != *filter.ArticleID {
			continue
		}
		if filter.TagID != nil && l.TagID != *filter.TagID {
			continue
		}
		ll := *l
		out = append(out, &ll)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockArticleTagRepository) Delete(ctx context.Context, articleID, tagID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, l := range m.s.ArticleTags {
		if l.ArticleID == articleID && l.TagID == tagID {
			delete(m.s.ArticleTags, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleTagRepository) SetForArticle(ctx context.Context, articleID int64, tagIDs []int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := m.s.Tags[id]; !ok {
			return fmt.Errorf("%w: article_tags_tagId_fkey", repository.ErrForeignKey)
		}
		want[id] = true
	}
	for id, l := range m.s.ArticleTags {
		if l.ArticleID != articleID {
			continue
		}
		if want[l.TagID] {
			delete(want, l.TagID)
			continue
		}
		delete(m.s.ArticleTags, id)
	}
	for _, tagID := range tagIDs {
		if !want[tagID] {
			continue
		}
		delete(want, tagID)
		id := m.s.nextID("article_tags")
		m.s.ArticleTags[id] = &models.ArticleTag{ID: id, ArticleID: articleID, TagID: tagID, CreatedAt: m.s.Now()}
	}
	return nil
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	s           *MockStore
	InsertError error
	UpdateError error
}

var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

// hydrate returns a copy of a with tags, category and author derived
// from the store, as the SQL select does. Caller holds the lock.
func (m *MockArticleRepository) hydrate(a *models.Article) *models.Article {
	out := *a
	out.Links = append([]models.Link{}, a.Links...)
	out.Tags = []string{}
	for _, l := range m.s.ArticleTags {
		if l.ArticleID == a.ID {
			if t, ok := m.s.Tags[l.TagID]; ok {
				out.Tags = append(out.Tags, t.Name)
			}
		}
	}
	sort.Strings(out.Tags)
	out.Category = nil
	if a.CategoryID != nil {
		id := *a.CategoryID
		out.CategoryID = &id
		if c, ok := m.s.Categories[id]; ok {
			out.Category = &models.CategoryRef{ID: c.ID, Name: c.Name}
		}
	}
	out.User = nil
	if u, ok := m.s.Users[a.AuthorID]; ok {
		out.User = &models.UserRef{ID: u.ID, Username: u.Username}
	}
	return &out
}

func (m *MockArticleRepository) store(a *models.Article) {
	stored := *a
	stored.Tags = nil
	stored.Category = nil
	stored.User = nil
	stored.Links = append([]models.Link{}, a.Links...)
	if a.CategoryID != nil {
		id := *a.CategoryID
		stored.CategoryID = &id
	}
	m.s.Articles[a.ID] = &stored
}

func (m *MockArticleRepository) checkRefs(a *models.Article) error {
	if _, ok := m.s.Users[a.AuthorID]; !ok {
		return fmt.Errorf("%w: articles_authorId_fkey", repository.ErrForeignKey)
	}
	if a.CategoryID != nil {
		if _, ok := m.s.Categories[*a.CategoryID]; !ok {
			return fmt.Errorf("%w: articles_categoryId_fkey", repository.ErrForeignKey)
		}
	}
	return nil
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.checkRefs(article); err != nil {
		return err
	}
	article.ID = m.s.nextID("articles")
	article.CreatedAt = m.s.Now()
	article.UpdatedAt = article.CreatedAt
	m.store(article)
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.Articles[id]
	if !ok {
		return nil, nil
	}
	return m.hydrate(a), nil
}

func (m *MockArticleRepository) GetForUpdate(ctx context.Context, id int64) (*models.Article, error) {
	return m.GetByID(ctx, id)
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*models.Article, 0, len(m.s.Articles))
	for _, a := range m.s.Articles {
		h := m.hydrate(a)
		if filter.CategoryID != nil && (h.CategoryID == nil || *h.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Favorite != nil && h.IsFavorite != *filter.Favorite {
			continue
		}
		if filter.Tag != "" && !containsString(h.Tags, filter.Tag) {
			continue
		}
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(h.Title), q) && !strings.Contains(strings.ToLower(h.Content), q) {
				continue
			}
		}
		out = append(out, h)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.Articles[article.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := m.checkRefs(article); err != nil {
		return err
	}
	article.CreatedAt = existing.CreatedAt
	article.UpdatedAt = m.s.Now()
	m.store(article)
	return nil
}

// Delete cascades to versions, comments and tag links
func (m *MockArticleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.Articles[id]; !ok {
		return false, nil
	}
	delete(m.s.Articles, id)
	delete(m.s.Versions, id)
	for cid, c := range m.s.Comments {
		if c.ArticleID == id {
			delete(m.s.Comments, cid)
		}
	}
	for lid, l := range m.s.ArticleTags {
		if l.ArticleID == id {
			delete(m.s.ArticleTags, lid)
		}
	}
	return true, nil
}

func (m *MockArticleRepository) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.Articles[id]
	if !ok {
		return false, nil
	}
	cp := *a
	cp.IsFavorite = !cp.IsFavorite
	cp.UpdatedAt = m.s.Now()
	m.s.Articles[id] = &cp
	return true, nil
}

func (m *MockArticleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	_, ok := m.s.Articles[id]
	return ok, nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.Articles), nil
}

func (m *MockArticleRepository) CountFavorites(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for _, a := range m.s.Articles {
		if a.IsFavorite {
			n++
		}
	}
	return n, nil
}

func (m *MockArticleRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	n := 0
	for _, a := range m.s.Articles {
		if !a.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MockArticleRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	counts := make(map[string]int)
	for _, a := range m.s.Articles {
		name := models.UncategorizedLabel
		if a.CategoryID != nil {
			if c, ok := m.s.Categories[*a.CategoryID]; ok {
				name = c.Name
			}
		}
		counts[name]++
	}
	out := make([]models.CategoryCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.CategoryCount{CategoryName: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out, nil
}

func (m *MockArticleRepository) Latest(ctx context.Context, limit int) ([]models.LatestArticle, error) {
	m.s.mu.Lock()
	all := make([]*models.Article, 0, len(m.s.Articles))
	for _, a := range m.s.Articles {
		all = append(all, m.hydrate(a))
	}
	m.s.mu.Unlock()

	sortNewestFirst(all)
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]models.LatestArticle, 0, len(all))
	for _, a := range all {
		out = append(out, models.LatestArticle{ID: a.ID, Title: a.Title, CreatedAt: a.CreatedAt, Category: a.Category})
	}
	return out, nil
}

// MockVersionRepository is a mock implementation of VersionRepository
type MockVersionRepository struct {
	s           *MockStore
	InsertError error
}

var _ repository.VersionRepository = (*MockVersionRepository)(nil)

func (m *MockVersionRepository) Create(ctx context.Context, version *models.ArticleVersion) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing := m.s.Versions[version.ArticleID]
	next := 1
	for _, v := range existing {
		if v.VersionNumber >= next {
			next = v.VersionNumber + 1
		}
	}
	version.ID = m.s.nextID("article_versions")
	version.VersionNumber = next
	version.CreatedAt = m.s.Now()
	version.UpdatedAt = version.CreatedAt
	stored := *version
	stored.Tags = append([]string{}, version.Tags...)
	stored.Links = append([]models.Link{}, version.Links...)
	m.s.Versions[version.ArticleID] = append(append([]*models.ArticleVersion(nil), existing...), &stored)
	return nil
}

func (m *MockVersionRepository) ListByArticle(ctx context.Context, articleID int64) ([]*models.ArticleVersion, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	versions := m.s.Versions[articleID]
	out := make([]*models.ArticleVersion, 0, len(versions))
	for _, v := range versions {
		vv := *v
		out = append(out, &vv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out, nil
}

func (m *MockVersionRepository) GetByNumber(ctx context.Context, articleID int64, versionNumber int) (*models.ArticleVersion, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, v := range m.s.Versions[articleID] {
		if v.VersionNumber == versionNumber {
			vv := *v
			return &vv, nil
		}
	}
	return nil, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	s           *MockStore
	InsertError error
}

var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.Articles[comment.ArticleID]; !ok {
		return fmt.Errorf("%w: comments_articleId_fkey", repository.ErrForeignKey)
	}
	comment.ID = m.s.nextID("comments")
	comment.CreatedAt = m.s.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	m.s.Comments[comment.ID] = &stored
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.Comments[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*models.Comment, 0)
	for _, c := range m.s.Comments {
		if c.ArticleID == articleID {
			cc := *c
			out = append(out, &cc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	existing, ok := m.s.Comments[comment.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cp := *existing
	cp.Content = comment.Content
	cp.UpdatedAt = m.s.Now()
	m.s.Comments[comment.ID] = &cp
	*comment = cp
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.Comments[id]; !ok {
		return false, nil
	}
	delete(m.s.Comments, id)
	return true, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sortNewestFirst(articles []*models.Article) {
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		}
		return articles[i].ID > articles[j].ID
	})
}
