package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/entity --output domain/entity --outpkg entitymock --filename repository_mock.go --with-expecter
