package routes

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/store"
	"github.com/cppla/blogapi/utils"
)

// fakeUsers keeps users in memory with the same error contract as store.Users.
type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*models.User{}}
}

func (f *fakeUsers) notFound(id string) error {
	return utils.NewNotFoundError("User with id %s not found!", id).WithCause(store.ErrEntityNotFound)
}

func (f *fakeUsers) Register(_ context.Context, u models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return "", utils.NewConflictError("Email already in use")
		}
	}
	hash, err := utils.HashPassword(u.Password, bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	u.Password = hash
	u.ID = primitive.NewObjectID()
	u.LikeHistory = []models.LikeEntry{}
	f.users[u.ID.Hex()] = &u
	return u.ID.Hex(), nil
}

func (f *fakeUsers) VerifyCredentials(_ context.Context, email, password string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && utils.CheckPassword(u.Password, password) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, f.notFound(id)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Update(_ context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, f.notFound(id)
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return f.notFound(id)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) FindOrCreateGoogle(context.Context, store.GoogleProfile) (*models.User, error) {
	return nil, utils.NewInternalError(nil)
}

func (f *fakeUsers) AddLike(_ context.Context, userID, blogID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, f.notFound(userID)
	}
	u.LikeHistory = append(u.LikeHistory, models.LikeEntry{ID: primitive.NewObjectID(), Title: blogID})
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Likes(_ context.Context, userID string) ([]models.LikeEntry, error) {
	u, err := f.FindByID(context.Background(), userID)
	if err != nil {
		return nil, err
	}
	return u.LikeHistory, nil
}

func (f *fakeUsers) Like(_ context.Context, userID, entryID string) (*models.LikeEntry, error) {
	u, err := f.FindByID(context.Background(), userID)
	if err != nil {
		return nil, err
	}
	for i := range u.LikeHistory {
		if u.LikeHistory[i].ID.Hex() == entryID {
			return &u.LikeHistory[i], nil
		}
	}
	return nil, utils.NewNotFoundError("Like history entry with id %s not found!", entryID)
}

func (f *fakeUsers) RemoveLike(_ context.Context, userID, entryID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, f.notFound(userID)
	}
	kept := []models.LikeEntry{}
	for _, e := range u.LikeHistory {
		if e.ID.Hex() != entryID {
			kept = append(kept, e)
		}
	}
	u.LikeHistory = kept
	cp := *u
	return &cp, nil
}

// fakeBlogs keeps blogs in memory.
type fakeBlogs struct {
	mu    sync.Mutex
	blogs map[string]*models.Blog
}

func newFakeBlogs() *fakeBlogs {
	return &fakeBlogs{blogs: map[string]*models.Blog{}}
}

func (f *fakeBlogs) notFound(id string) error {
	return utils.NewNotFoundError("Blog with id %s not found!", id).WithCause(store.ErrParentNotFound)
}

func (f *fakeBlogs) Create(_ context.Context, b models.Blog) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = primitive.NewObjectID()
	f.blogs[b.ID.Hex()] = &b
	return b.ID.Hex(), nil
}

func (f *fakeBlogs) List(context.Context) ([]models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Blog{}
	for _, b := range f.blogs {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBlogs) FindByID(_ context.Context, id string) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[id]
	if !ok {
		return nil, f.notFound(id)
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBlogs) Update(_ context.Context, id string, upd models.BlogUpdate) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[id]
	if !ok {
		return nil, f.notFound(id)
	}
	if upd.Title != nil {
		b.Title = *upd.Title
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBlogs) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blogs[id]; !ok {
		return f.notFound(id)
	}
	delete(f.blogs, id)
	return nil
}

func (f *fakeBlogs) Page(ctx context.Context, q store.Query) ([]models.Blog, int64, error) {
	all, _ := f.List(ctx)
	total := int64(len(all))
	end := min(q.Skip+q.Limit, total)
	if q.Skip >= total {
		return []models.Blog{}, total, nil
	}
	return all[q.Skip:end], total, nil
}

func (f *fakeBlogs) AddComment(_ context.Context, blogID string, c *models.Comment) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[blogID]
	if !ok {
		return nil, f.notFound(blogID)
	}
	c.ID = primitive.NewObjectID()
	b.Comments = append(b.Comments, *c)
	cp := *b
	return &cp, nil
}

func (f *fakeBlogs) Comments(ctx context.Context, blogID string) ([]models.Comment, error) {
	b, err := f.FindByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if b.Comments == nil {
		return []models.Comment{}, nil
	}
	return b.Comments, nil
}

func (f *fakeBlogs) Comment(ctx context.Context, blogID, commentID string) (*models.Comment, error) {
	b, err := f.FindByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	for i := range b.Comments {
		if b.Comments[i].ID.Hex() == commentID {
			return &b.Comments[i], nil
		}
	}
	return nil, utils.NewNotFoundError("Comment with id %s not found!", commentID).WithCause(store.ErrEntityNotFound)
}

func (f *fakeBlogs) ReplaceComment(_ context.Context, commentID string, c *models.Comment) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.blogs {
		for i := range b.Comments {
			if b.Comments[i].ID.Hex() == commentID {
				c.ID = b.Comments[i].ID
				b.Comments[i] = *c
				cp := *b
				return &cp, nil
			}
		}
	}
	return nil, utils.NewNotFoundError("Comment with id %s not found!", commentID).WithCause(store.ErrEntityNotFound)
}

func (f *fakeBlogs) RemoveComment(_ context.Context, blogID, commentID string) (*models.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[blogID]
	if !ok {
		return nil, f.notFound(blogID)
	}
	kept := []models.Comment{}
	for _, c := range b.Comments {
		if c.ID.Hex() != commentID {
			kept = append(kept, c)
		}
	}
	b.Comments = kept
	cp := *b
	return &cp, nil
}

// fakeAuthors keeps authors in memory.
type fakeAuthors struct {
	mu      sync.Mutex
	authors map[string]*models.Author
}

func newFakeAuthors() *fakeAuthors {
	return &fakeAuthors{authors: map[string]*models.Author{}}
}

func (f *fakeAuthors) notFound(id string) error {
	return utils.NewNotFoundError("Author with id %s not found!", id)
}

func (f *fakeAuthors) Create(_ context.Context, a models.Author) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = primitive.NewObjectID()
	f.authors[a.ID.Hex()] = &a
	return a.ID.Hex(), nil
}

func (f *fakeAuthors) List(context.Context) ([]models.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Author{}
	for _, a := range f.authors {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAuthors) FindByID(_ context.Context, id string) (*models.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.authors[id]
	if !ok {
		return nil, f.notFound(id)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAuthors) Update(_ context.Context, id string, upd models.AuthorUpdate) (*models.Author, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.authors[id]
	if !ok {
		return nil, f.notFound(id)
	}
	if upd.FirstName != nil {
		a.FirstName = *upd.FirstName
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAuthors) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.authors[id]; !ok {
		return f.notFound(id)
	}
	delete(f.authors, id)
	return nil
}
