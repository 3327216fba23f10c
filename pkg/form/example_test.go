package form_test

import (
	"fmt"

	"github.com/goliatone/go-formulay/pkg/form"
	"github.com/goliatone/go-formulay/pkg/record"
	"github.com/goliatone/go-formulay/pkg/schema"
)

func ExampleForm() {
	s := schema.New("signup").Text("email").Bool("agreeToTerms").OptionalText("nickname").MustBuild()

	f, err := form.New(s, func(rec record.Record) {
		out, _ := rec.MarshalJSON()
		fmt.Println(string(out))
	})
	if err != nil {
		panic(err)
	}

	_ = f.Dispatch(form.Event{Control: "email", Value: "a@b.com"})
	_ = f.Dispatch(form.Event{Control: "agreeToTerms", Checked: true})
	f.Submit(nil)
	// Output: {"email":"a@b.com","agreeToTerms":true,"nickname":null}
}
