package goquery_test

import "github.com/fwojciec/deliver"

const ldrURL = "http://reader.livedoor.com/reader/"

const ldrHTML = `<html><head><title>livedoor Reader</title></head><body>
<div id="right_body">
  <div class="channel"><h2 class="title"><a>Example   Blog</a></h2></div>
  <div id="item_1">
    <h2 class="item_title"><a href="http://example.com/entry/1">First &amp; Best</a></h2>
    <div class="author">alice</div>
    <div class="item_body"><p id="body1">Body text</p></div>
  </div>
  <div id="item_2">
    <h2 class="item_title"><a href="http://someone.tumblr.com/post/98765">Tumblr entry</a></h2>
    <div class="item_body"><p id="body2">Reblog me</p></div>
  </div>
  <div id="item_3">
    <h2 class="item_title"><a href="http://data.tumblr.com/post/1">Media</a></h2>
    <div class="item_body"><p id="body3">media</p></div>
  </div>
</div>
<p id="outside">Not an entry</p>
</body></html>`

const greaderURL = "http://www.google.com/reader/view/"

const greaderHTML = `<html><head><title>Google Reader</title></head><body>
<div id="entries">
  <div class="entry">
    <h2 class="entry-title"><a class="entry-title-link" href="http://news.example.com/a">Headline</a></h2>
    <a class="entry-source-title">News Feed</a>
    <span class="entry-author-name">bob</span>
    <div class="entry-body"><p id="gbody">Story</p></div>
  </div>
</div>
</body></html>`

const articleURL = "http://blog.example.com/2009/01/post.html"

const articleHTML = `<html><head>
<title>  A Post  </title>
<link rel="canonical" href="/canonical/post">
<meta property="og:site_name" content="Example Blog">
<meta name="author" content="carol">
</head><body>
<p id="para">Some text</p>
<a id="link" href="http://other.example.com/">Other</a>
<img id="img" src="http://blog.example.com/cat.jpg">
</body></html>`

func ldrDoc() *deliver.Document {
	return &deliver.Document{URL: ldrURL, Title: "livedoor Reader", HTML: ldrHTML}
}

func greaderDoc() *deliver.Document {
	return &deliver.Document{URL: greaderURL, Title: "Google Reader", HTML: greaderHTML}
}

func articleDoc() *deliver.Document {
	return &deliver.Document{URL: articleURL, Title: "A Post", HTML: articleHTML}
}
