package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestKeyring(t *testing.T) {
	Convey("Given an empty keyring", t, func() {
		keyring.MockInit()

		Convey("Credentials are empty without an error", func() {
			token, err := Credentials()
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
		})

		Convey("A saved token is returned until deleted", func() {
			So(SetToken("secret"), ShouldBeNil)

			token, err := Credentials()
			So(err, ShouldBeNil)
			So(token, ShouldEqual, "secret")

			So(DeleteToken(), ShouldBeNil)
			_, err = GetToken()
			So(err, ShouldEqual, keyring.ErrNotFound)
		})
	})
}
