package gql

import (
	"context"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

const postByIDOperation = `
query PostByID ($id: ID!) {
	post(id: $id) {
		id
		title
		content
		authorId
		createdAt
	}
}
`

const deletePostOperation = `
mutation DeletePost ($id: ID!, $authorId: ID!) {
	deletePost(id: $id, authorId: $authorId)
}
`

type PostByIDPost struct {
	Id        string  `json:"id"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	AuthorId  string  `json:"authorId"`
	CreatedAt *string `json:"createdAt"`
}

type PostByIDResponse struct {
	Post *PostByIDPost `json:"post"`
}

type DeletePostResponse struct {
	DeletePost *bool `json:"deletePost"`
}

type postByIDInput struct {
	Id string `json:"id"`
}

type deletePostInput struct {
	Id       string `json:"id"`
	AuthorId string `json:"authorId"`
}

func PostByID(
	ctx context.Context,
	client genqlientgraphql.Client,
	id string,
) (*PostByIDResponse, error) {
	req := &genqlientgraphql.Request{
		OpName:    "PostByID",
		Query:     postByIDOperation,
		Variables: &postByIDInput{Id: id},
	}

	var data PostByIDResponse
	resp := &genqlientgraphql.Response{Data: &data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}

	return &data, nil
}

func DeletePost(
	ctx context.Context,
	client genqlientgraphql.Client,
	id string,
	authorID string,
) (*DeletePostResponse, error) {
	req := &genqlientgraphql.Request{
		OpName:    "DeletePost",
		Query:     deletePostOperation,
		Variables: &deletePostInput{Id: id, AuthorId: authorID},
	}

	var data DeletePostResponse
	resp := &genqlientgraphql.Response{Data: &data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}

	return &data, nil
}
