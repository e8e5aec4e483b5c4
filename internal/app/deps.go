package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/abhisek/studyforge/internal/apiclient"
	"github.com/abhisek/studyforge/internal/auth"
	"github.com/abhisek/studyforge/internal/dates"
	"github.com/abhisek/studyforge/internal/screen"
	"github.com/abhisek/studyforge/internal/screens/assignment"
	"github.com/abhisek/studyforge/internal/screens/dashboard"
	"github.com/abhisek/studyforge/internal/screens/login"
	"github.com/abhisek/studyforge/internal/screens/placeholder"
	"github.com/abhisek/studyforge/internal/screens/requests"
	"github.com/abhisek/studyforge/internal/screens/syllabus"
	"github.com/abhisek/studyforge/internal/screens/topic"
	"github.com/abhisek/studyforge/internal/screens/upload"
	"github.com/abhisek/studyforge/internal/store"
	"github.com/abhisek/studyforge/internal/study"
)

// Backend is everything the screens need from the API client.
type Backend interface {
	login.Authenticator
	dashboard.Backend
	syllabus.Backend
	topic.Backend
	upload.Backend
	assignment.Backend
	Session() *auth.Holder
}

var _ Backend = (*apiclient.Client)(nil)

// Deps are the app's collaborators.
type Deps struct {
	Client Backend
	// Events is optional; without it the requests screen is unavailable.
	Events store.RequestEventRepo
	Style  dates.Style
	Log    *zap.Logger
}

// Session returns the client's session holder.
func (d Deps) Session() *auth.Holder {
	return d.Client.Session()
}

// navigator builds screens from Deps. It implements the Navigator
// interfaces of the screen packages. Every screen it builds uses ctx for
// its requests.
type navigator struct {
	ctx  context.Context
	deps Deps
}

func (n *navigator) Login(notice string) screen.Screen {
	return login.New(n.ctx, n.deps.Client, notice)
}

func (n *navigator) Dashboard() screen.Screen {
	return dashboard.New(n.ctx, n.deps.Client, n, n.deps.Style)
}

func (n *navigator) Syllabus(id int64) screen.Screen {
	return syllabus.New(n.ctx, n.deps.Client, n, id, n.deps.Style)
}

func (n *navigator) Topic(syl study.Syllabus, topics []study.Topic, topicID int64) screen.Screen {
	return topic.New(n.ctx, n.deps.Client, n, syl, topics, topicID, n.deps.Style)
}

func (n *navigator) Assignment(id int64) screen.Screen {
	return assignment.New(n.ctx, n.deps.Client, id)
}

func (n *navigator) Upload() screen.Screen {
	return upload.New(n.ctx, n.deps.Client, n)
}

func (n *navigator) Requests() screen.Screen {
	if n.deps.Events == nil {
		return placeholder.New("Requests", "Request history needs the local database. Check the db_path setting.")
	}
	return requests.New(n.ctx, n.deps.Events)
}
