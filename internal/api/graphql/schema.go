// Package graphql exposes the application's single query/mutation
// endpoint. Resolvers delegate all business rules to the core services
// and only translate between GraphQL values and domain types.
package graphql

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/daskousik/blog-api/internal/api/metrics"
	"github.com/daskousik/blog-api/internal/api/middleware"
	"github.com/daskousik/blog-api/internal/core/domain"
	"github.com/daskousik/blog-api/internal/core/ports"
)

// isoFormat renders timestamps the way JS Date.toISOString does:
// RFC 3339, millisecond precision, UTC.
const isoFormat = "2006-01-02T15:04:05.000Z"

func isoTime(t time.Time) string {
	return t.UTC().Format(isoFormat)
}

// requireAuth returns the caller identity or an Unauthorized error when
// the request carried no valid token.
func requireAuth(ctx context.Context) (middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(ctx)
	if !ok {
		return middleware.Identity{}, domain.NewError(domain.KindUnauthorized, "not authenticated")
	}
	return id, nil
}

func userField(f func(p graphql.ResolveParams, u *domain.User) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		u, ok := p.Source.(*domain.User)
		if !ok {
			return nil, nil
		}
		return f(p, u)
	}
}

func postField(f func(p *domain.Post) (interface{}, error)) graphql.FieldResolveFn {
	return func(rp graphql.ResolveParams) (interface{}, error) {
		p, ok := rp.Source.(*domain.Post)
		if !ok {
			return nil, nil
		}
		return f(p)
	}
}

// NewSchema wires the full query/mutation schema against the given
// services.
func NewSchema(auth ports.AuthService, posts ports.PostService) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"_id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: userField(func(_ graphql.ResolveParams, u *domain.User) (interface{}, error) {
					return u.ID, nil
				}),
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: userField(func(_ graphql.ResolveParams, u *domain.User) (interface{}, error) {
					return u.Name, nil
				}),
			},
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: userField(func(_ graphql.ResolveParams, u *domain.User) (interface{}, error) {
					return u.Email, nil
				}),
			},
			"status": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: userField(func(_ graphql.ResolveParams, u *domain.User) (interface{}, error) {
					return u.Status, nil
				}),
			},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"_id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: postField(func(p *domain.Post) (interface{}, error) {
					return p.ID, nil
				}),
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: postField(func(p *domain.Post) (interface{}, error) {
					return p.Title, nil
				}),
			},
			"content": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: postField(func(p *domain.Post) (interface{}, error) {
					return p.Content, nil
				}),
			},
			"imageUrl": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: postField(func(p *domain.Post) (interface{}, error) {
					return p.ImageURL, nil
				}),
			},
			"creator": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: postField(func(p *domain.Post) (interface{}, error) {
					return p.Creator, nil
				}),
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: postField(func(p *domain.Post) (interface{}, error) {
					return isoTime(p.CreatedAt), nil
				}),
			},
			"updatedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: postField(func(p *domain.Post) (interface{}, error) {
					return isoTime(p.UpdatedAt), nil
				}),
			},
		},
	})

	// posts on User references postType, which references userType
	// through creator; the cycle is closed after both exist.
	userType.AddFieldConfig("posts", &graphql.Field{
		Type: graphql.NewList(graphql.NewNonNull(postType)),
		Resolve: userField(func(p graphql.ResolveParams, u *domain.User) (interface{}, error) {
			owned := make([]*domain.Post, 0, len(u.PostIDs))
			for _, id := range u.PostIDs {
				post, err := posts.Get(p.Context, id)
				if err != nil {
					return nil, err
				}
				owned = append(owned, post)
			}
			return owned, nil
		}),
	})

	authDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthData",
		Fields: graphql.Fields{
			"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"userId": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PostData",
		Fields: graphql.Fields{
			"posts":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType)))},
			"totalPosts": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	userInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"imageUrl": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authDataType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					email, _ := p.Args["email"].(string)
					password, _ := p.Args["password"].(string)

					result, err := auth.Login(p.Context, email, password)
					if err != nil {
						metrics.LoginsTotal.WithLabelValues("failure").Inc()
						return nil, err
					}
					metrics.LoginsTotal.WithLabelValues("success").Inc()
					return map[string]interface{}{"token": result.Token, "userId": result.UserID}, nil
				},
			},
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(postDataType),
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := requireAuth(p.Context); err != nil {
						return nil, err
					}

					page, _ := p.Args["page"].(int)
					feed, err := posts.List(p.Context, page)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"posts":      feed.Posts,
						"totalPosts": int(feed.TotalPosts),
					}, nil
				},
			},
			"post": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if _, err := requireAuth(p.Context); err != nil {
						return nil, err
					}

					id, _ := p.Args["id"].(string)
					return posts.Get(p.Context, id)
				},
			},
			"user": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					return auth.Me(p.Context, caller.UserID)
				},
			},
		},
	})

	rootMutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := auth.Register(p.Context, userInputArg(p.Args["userInput"]))
					if err != nil {
						return nil, err
					}
					metrics.UsersRegisteredTotal.Inc()
					return user, nil
				},
			},
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(postInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					post, err := posts.Create(p.Context, caller.UserID, postInputArg(p.Args["postInput"]))
					if err != nil {
						return nil, err
					}
					metrics.PostsCreatedTotal.Inc()
					return post, nil
				},
			},
			"updatePost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"postInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(postInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					return posts.Update(p.Context, caller.UserID, id, postInputArg(p.Args["postInput"]))
				},
			},
			"deletePost": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					deleted, err := posts.Delete(p.Context, caller.UserID, id)
					if err != nil {
						return nil, err
					}
					metrics.PostsDeletedTotal.Inc()
					return deleted, nil
				},
			},
			"updateStatus": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := requireAuth(p.Context)
					if err != nil {
						return nil, err
					}
					status, _ := p.Args["status"].(string)
					return auth.UpdateStatus(p.Context, caller.UserID, status)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    rootQuery,
		Mutation: rootMutation,
	})
}

func userInputArg(v interface{}) ports.UserInput {
	m, _ := v.(map[string]interface{})
	input := ports.UserInput{}
	input.Email, _ = m["email"].(string)
	input.Name, _ = m["name"].(string)
	input.Password, _ = m["password"].(string)
	return input
}

func postInputArg(v interface{}) ports.PostInput {
	m, _ := v.(map[string]interface{})
	input := ports.PostInput{}
	input.Title, _ = m["title"].(string)
	input.Content, _ = m["content"].(string)
	input.ImageURL, _ = m["imageUrl"].(string)
	return input
}
